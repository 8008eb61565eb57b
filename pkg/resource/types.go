package resource

// Identifiable is implemented by records that can be addressed as {item}/{id}.
type Identifiable interface {
	ResourceID() string
}

// Page is one page of a collection listing.
type Page[T any] struct {
	Result []T   `json:"result"`
	Total  int64 `json:"total"`
}

// Meta is the aggregate listing metadata of a collection.
type Meta[S any] struct {
	Statuses []S     `json:"statuses"`
	Totals   []int64 `json:"totals"`
	Total    int64   `json:"total"`
}

// OperationResult is the outcome reported by the server for a mutation.
type OperationResult struct {
	Status any `json:"status"`
}

// Action names a mutation kind.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes a mutation the server accepted.
type Change struct {
	Resource string `json:"resource"`
	Action   Action `json:"action"`
	ID       string `json:"id"`
	Payload  any    `json:"payload,omitempty"`
}

// listEnvelope is the wire shape of a collection page.
type listEnvelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// dataEnvelope is the wire shape of a create response.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type createRequest struct {
	Name string `json:"name"`
}

// messageBody is the error payload some servers attach to non-2xx responses.
type messageBody struct {
	Message string `json:"message"`
}

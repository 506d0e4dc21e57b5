package handlers

// Slug tags every API response with a machine-readable outcome
type Slug string

const (
	// SuccessSlug marks a successful operation
	SuccessSlug Slug = "success"
	// ErrorSlug marks a generic failure
	ErrorSlug Slug = "error"
	// InvalidInputSlug marks malformed or invalid input
	InvalidInputSlug Slug = "invalid-input"
	// ForbiddenSlug marks an access denial
	ForbiddenSlug Slug = "forbidden"
	// NotFoundSlug marks a missing resource
	NotFoundSlug Slug = "not-found"
	// InvalidTransitionSlug marks a status change the state machine rejects
	InvalidTransitionSlug Slug = "invalid-transition"
	// ConflictSlug marks a scheduling conflict
	ConflictSlug Slug = "scheduling-conflict"
	// ServerErrorSlug marks an internal failure
	ServerErrorSlug Slug = "server-error"
)

// Response is the envelope every endpoint returns
type Response struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func errInvalidInput(msg string) Response {
	return Response{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

func errForbidden(msg string) Response {
	return Response{
		Slug:  ForbiddenSlug,
		Error: msg,
	}
}

func errNotFound(msg string) Response {
	return Response{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

func errServer(msg string) Response {
	return Response{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}

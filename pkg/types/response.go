package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Reason is a stable machine-readable tag
// such as "limit-too-large".
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

package inbound

type StatusResponse struct {
	HasSecret bool `json:"has_secret"`
}

type SetupResponse struct {
	HasSecret bool   `json:"has_secret"`
	QR        string `json:"qr"`
	URI       string `json:"uri"`
}

func (SetupResponse) Message() string {
	return "Scan the QR code with your authenticator app"
}

type VerifyRequest struct {
	Code string `json:"code"`
}

type VerifyResponse struct {
	Outcome string `json:"outcome"`
	Delta   *int   `json:"delta,omitempty"`

	message string
}

func (v VerifyResponse) Message() string {
	return v.message
}

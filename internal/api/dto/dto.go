package dto

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BlockIPRequest struct {
	IPAddress string `json:"ip_address"`
}

type BlockIPResponse struct {
	IPAddress string `json:"ip_address"`
	Created   bool   `json:"created"`
}

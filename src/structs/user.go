package structs

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name,omitempty"`
	Avatar        string `json:"avatar"`
	Bot           bool   `json:"bot,omitempty"`
	PublicFlags   uint   `json:"public_flags"`
}

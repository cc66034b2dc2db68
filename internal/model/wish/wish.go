package wish

// Wish is one assignable Secret Santa entry.
type Wish struct {
	Name    string `json:"name"`
	Trigram string `json:"trigram"`
	Wish    string `json:"wish"`
}

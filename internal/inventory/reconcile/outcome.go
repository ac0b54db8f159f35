package reconcile

// Outcome counts what a merge did with the incoming records.
type Outcome struct {
	TotalImported int `json:"totalImported"`
	NewAssets     int `json:"newAssets"`
	UpdatedAssets int `json:"updatedAssets"`
	Conflicts     int `json:"conflicts"`
	SkippedAssets int `json:"skippedAssets"`
}

func (o *Outcome) Add(other Outcome) {
	o.TotalImported += other.TotalImported
	o.NewAssets += other.NewAssets
	o.UpdatedAssets += other.UpdatedAssets
	o.Conflicts += other.Conflicts
	o.SkippedAssets += other.SkippedAssets
}

// Conflict describes an incoming record that matched an existing one on some key
// field while disagreeing on another.
type Conflict struct {
	IncomingID    string `json:"incomingId"`
	ExistingID    string `json:"existingId"`
	Field         string `json:"field"`
	IncomingValue string `json:"incomingValue"`
	ExistingValue string `json:"existingValue"`
}

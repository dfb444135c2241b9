package repositories

// ChronicleDbRepository groups the queries against the chronicle tables.
type ChronicleDbRepository struct{}

func NewChronicleDbRepository() ChronicleDbRepository {
	return ChronicleDbRepository{}
}

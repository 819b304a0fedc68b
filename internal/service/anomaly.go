package service

// AnomalyRule flags any login whose resolved location differs from the
// configured home country. Case-sensitive exact match, no I/O.
type AnomalyRule struct {
	HomeCountry string
}

func (r AnomalyRule) Anomalous(location string) bool {
	return location != r.HomeCountry
}

package service

// IsSuccessStatus reports whether a provider status string is a
// success-terminal alias, i.e. money received.
func IsSuccessStatus(status string) bool {
	return successStatuses[status]
}

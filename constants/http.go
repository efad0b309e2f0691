package constants

const (
	HeaderUserIDKey    = "X-User-ID"
	HeaderRequestIDKey = "X-Request-ID"
)

const ServiceName = "CTF-Checker"

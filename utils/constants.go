package utils

// RevokedTokenPrefix is the redis key prefix under which the auth service
// marks revoked bearer tokens (by SHA-256 hash).
const RevokedTokenPrefix = "auth:revoked:"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

package compliance

import "errors"

// ErrQueryFailed covers every way the system query can fail: transport,
// server status, GraphQL errors and undecodable payloads alike.
var ErrQueryFailed = errors.New("compliance query failed")

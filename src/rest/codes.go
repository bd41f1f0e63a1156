package rest

// Error codes the API attaches to its error bodies.
// https://discord.com/developers/docs/topics/opcodes-and-status-codes#json
type APIErrorCode = int

const (
	APIErrorUnknownChannel APIErrorCode = 10003
	APIErrorUnknownGuild   APIErrorCode = 10004
	APIErrorUnknownMessage APIErrorCode = 10008
	APIErrorUnknownUser    APIErrorCode = 10013
	APIErrorMissingAccess  APIErrorCode = 50001
)

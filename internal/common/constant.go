package common

// AuthorizationHeader is the HTTP header carrying the bearer access token.
const AuthorizationHeader = "Authorization"

// MaxUploadBatchSize is the largest number of files accepted in a single
// upload batch. Files beyond this limit are rejected during validation.
const MaxUploadBatchSize = 5

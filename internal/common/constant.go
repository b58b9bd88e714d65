package common

// APIKeyHeaderName is the HTTP header that carries the user-service API key.
const APIKeyHeaderName = "x-api-key"

// PageSize is the number of records shown per view page.
const PageSize = 10

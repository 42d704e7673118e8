// @title           bookmarks API
// @version         1.0
// @description     CRUD API for bookmark records. Title and description are sanitized in every response.
// @BasePath        /
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API token or OIDC ID token.
package api

// Package cocktaildb provides an HTTP client for TheCocktailDB recipe API.
//
// # Endpoints
//
// Two read-only endpoints are used:
//
//   - GET search.php?s=<term>: drinks whose name matches term
//   - GET lookup.php?i=<id>: a single drink by id
//
// Both answer {"drinks": [...]}; a miss is reported as "drinks": null (or,
// on some endpoints, a plain string), which the client maps to an empty
// result for searches and ErrNotFound for lookups.
//
// # Drinks
//
// The API flattens ingredients into strIngredient1..15 and strMeasure1..15.
// Drink decodes those into an ordered Ingredients slice, skipping blanks.
// SplitGarnish separates the entries measured "Garnish with".
//
// # Errors
//
// Errors are wrapped with the step that failed:
//
//   - "execute request: dial tcp: connection refused"
//   - "api search.php returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// The client is safe for concurrent use.
package cocktaildb

// Package geocode turns listing address text into coordinates using the
// external geolocation search API.
//
// The search is called with key, q and format=json and must answer with a
// JSON array of places; the first place wins:
//
//	[{"lat": "47.3769", "lon": "8.5417", "display_name": "Zürich, ..."}]
package geocode

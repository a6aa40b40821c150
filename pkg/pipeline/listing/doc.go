/*
Package listing implements POST /createProperty.

The stages run in order and each depends on the previous one:

	owner    verify the bearer token, then GET user /userId
	parse    multipart form: JSON "content" part plus "images" file parts
	geocode  address and location text to longitude and latitude
	create   POST inventory /properties with ownerId and coordinates added
	upload   POST image /upload?propertyId=<id>&primary=<bool>, one image at a time

Only the first image is primary. The first failed upload stops the remaining
ones and the property record is kept; the error names the property id so the
listing can be repaired by hand.

A geocoding search without a match answers 404. A geolocation service that
fails or answers garbage answers 500.
*/
package listing

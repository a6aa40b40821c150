/*
Package query implements the natural-language search pipeline behind
GET /initial_query.

	1. GET  inventory /schema/propertyQuery       the filter schema
	2. POST llm /generates/query                  {query, api_documentation} → {content}
	3. GET  inventory /queryProperties?<filters>  the search itself

The LLM's content is a JSON object encoded as a string. Null entries are
dropped and an empty string means no filters. The schema is fetched on every
run and passed through to the LLM untouched.

With echo enabled the filters are returned next to the results:

	{"results": [], "filters": {"location": "Zurich"}}
*/
package query

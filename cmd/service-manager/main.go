// Service Manager is the API gateway of the real-estate platform.
//
// It is the single entry point for the web client: it forwards calls to the
// inventory, user, image and LLM services, and orchestrates two flows of its
// own:
//   - natural-language property search (GET /initial_query)
//   - listing creation with geocoding and image upload (POST /createProperty)
//
// Usage:
//
//	# Start the gateway with config.yaml from the working directory
//	service-manager run
//
//	# Start with a custom configuration file
//	service-manager run --config /etc/service-manager/config.yaml
//
//	# Check a configuration file without starting
//	service-manager validate --config config.yaml
//
//	# Show version information
//	service-manager version
package main

import "os"

func main() {
	os.Exit(Execute())
}

// Package docs provides Swagger documentation for the API.
package docs

// @title Multi-Agent Gateway API
// @version 1.0
// @description Request-routing and account-management gateway for Eliza and Tools agent services
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https

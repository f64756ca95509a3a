// @title SmartTrip Backend API
// @version 1.0
// @description Trip planning and expense tracking API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "smarttrip",
	Short:        "SmartTrip backend",
	Long:         "Trip planning and expense tracking API server.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	addServeFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/db"
	"github.com/restviews/restviews/log"
	"github.com/restviews/restviews/rest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultAPIPath = "/api"

// Environment variables prefixed with "RESTVIEWS_" can override settings e.g. "RESTVIEWS_MAX_PAGE_SIZE"
const envVarPrefix = "restviews"

var cfgFile string
var logger log.Logger
var cfg *config.EndpointConfig

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " [--dsn DSN --config FILE|--demo] [OPTIONS]",
	Short: "Filtered, sorted and paginated REST list endpoints",
	Args: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("dsn") == "" && !viper.GetBool("demo") {
			return errors.New("a dsn is required unless the demo endpoints are started")
		}
		if viper.GetString("dsn") != "" && !viper.IsSet("views") {
			return errors.New("views should be declared in the config file")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg = config.NewEndpointConfigWithLogger(logger).
			WithDefaultPageSize(viper.GetInt("default-page-size")).
			WithMaxPageSize(viper.GetInt("max-page-size"))

		generator := rest.NewRouteGenerator(cfg)
		viewNames := make([]string, 0)

		if viper.GetBool("demo") {
			viewNames = append(viewNames, addDemoViews(generator)...)
		}

		if dsn := viper.GetString("dsn"); dsn != "" {
			conn, err := db.NewDb(viper.GetString("driver"), dsn)
			if err != nil {
				logger.Fatal("unable to connect to the database", "error", err)
			}
			defer conn.Close()

			names, err := addTableViews(generator, conn, viper.Get("views"))
			if err != nil {
				logger.Fatal("unable to create views", "error", err)
			}
			viewNames = append(viewNames, names...)
		}

		router := rest.ApiRouter(generator.Routes(viper.GetString("api-path")), logger)
		listenAndServe(router, viper.GetInt("port"), strings.Join(viewNames, ","))
	},
}

// Execute starts the list endpoints
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file declaring the views")
	flags.String("dsn", "", "data source name of the database")
	flags.String("driver", "postgres", "database driver")
	flags.Bool("demo", false, "start in-memory demo endpoints")
	flags.String("api-path", defaultAPIPath, "path prefix of the list endpoints")
	flags.Int("port", 8080, "endpoint port")
	flags.Int("default-page-size", config.DefaultPageSize, "page size used when page_size is not provided")
	flags.Int("max-page-size", config.DefaultMaxPageSize, "maximum page size")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func listenAndServe(handler http.Handler, port int, viewNames string) {
	logger.Info("server listening",
		"port", port,
		"views", viewNames)
	handler = rest.NewCorrelationHandler(maybeAddCORS(maybeAddRequestLogging(handler)))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

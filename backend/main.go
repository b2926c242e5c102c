package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"storefront/backend/catalog"
	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/routes"
	"storefront/backend/session"
	"storefront/backend/upstream"
	"storefront/backend/utils"
)

func main() {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Course storefront and classroom API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE:  runServe,
		},
		newCatalogCommand(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := upstream.New(cfg.BackendURL, cfg.RequestTimeout)
	sessions := session.NewManager(client, logger, cfg.SessionTTL)
	sessions.Start(ctx)
	if cfg.SessionTTL > 0 {
		go sessions.Run(ctx, cfg.SessionTTL/2)
	}

	app := NewApp(cfg, client, sessions, logger)

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	logger.Info("server starting", "port", cfg.ServerPort, "backend", cfg.BackendURL)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg *config.Config, client *upstream.Client, sessions *session.Manager, logger *utils.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, client, sessions, cfg)
	return app
}

func newCatalogCommand() *cobra.Command {
	var q catalog.Query
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the published courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			courses, err := upstream.New(cfg.BackendURL, cfg.RequestTimeout).FetchCatalog(ctx)
			if err != nil {
				return fmt.Errorf("fetch catalog: %s", upstream.UserMessage(err))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tEDUCATOR\tPRICE\tRATING\tLECTURES\tDURATION")
			for _, c := range catalog.Browse(courses, q) {
				c := c
				fmt.Fprintf(w, "%s\t%s\t%s\t%s%.2f\t%d/5\t%d\t%s\n",
					c.ID, c.Title, c.Educator.Name, cfg.Currency, c.DiscountedPrice(),
					catalog.AverageRating(c.Ratings), catalog.LectureCount(&c),
					catalog.HumanizeMinutes(catalog.CourseDurationMinutes(&c)))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by title")
	cmd.Flags().StringVar(&q.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "popularity, price-low, price-high or rating")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog-backend/api"
	"github.com/rpupo63/portfolio-blog-backend/cache"
	"github.com/rpupo63/portfolio-blog-backend/config"
	"github.com/rpupo63/portfolio-blog-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	log.Info().Msg("Initializing app...")

	blogConfig := config.LoadBlogConfig(c)
	source, err := newBlogSource(context.Background(), &blogConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring blog data source")
	}

	blogService := services.NewBlogService(source, cache.New(blogConfig.CacheTTL))

	// warm the cache so the first visitor does not wait on the fetch
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), blogConfig.FetchTimeout)
		defer cancel()
		blogService.GetPosts(ctx, false)
	}()

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, blogService)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newBlogSource picks the object storage source when a bucket is configured and
// the HTTP source otherwise. AWS clients are only built when one is needed.
func newBlogSource(ctx context.Context, blogConfig *config.BlogConfig) (services.BlogSource, error) {
	if !blogConfig.UsesS3() && (blogConfig.DataURL != "" || blogConfig.DataURLParameter == "") {
		if blogConfig.DataURL == "" {
			log.Warn().Msg("BLOG_DATA_URL is not set, placeholder posts will be served")
		}
		return services.NewHTTPBlogSource(blogConfig.DataURL, blogConfig.FetchTimeout), nil
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if blogConfig.UsesS3() {
		log.Info().Str("bucket", blogConfig.S3Bucket).Str("key", blogConfig.S3Key).Msg("Reading blog data from S3")
		return services.NewS3BlogSource(s3.NewFromConfig(awsConfig), blogConfig.S3Bucket, blogConfig.S3Key), nil
	}

	if err := blogConfig.ResolveDataURL(ctx, ssm.NewFromConfig(awsConfig)); err != nil {
		return nil, err
	}
	log.Info().Str("parameter", blogConfig.DataURLParameter).Msg("Resolved blog data URL from SSM")
	return services.NewHTTPBlogSource(blogConfig.DataURL, blogConfig.FetchTimeout), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

package main

import (
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/application/services"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/adapters"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/gin_interface/controllers"
	"github.com/Abdo12KM/children-storybook-generator/middleware"
	mockgenerator "github.com/Abdo12KM/children-storybook-generator/mock"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	zeroLogger := adapters.NewZerologWrapper(pipelineConfig.LogLevel)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	// Page tasks that find the pool full fall back to placeholders instead of waiting.
	workerPool, err := ants.NewPool(pipelineConfig.WorkerPoolSize, ants.WithPanicHandler(panicHandler), ants.WithNonblocking(true))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	var (
		textGenerator  outbound.TextGeneratorPort
		imageGenerator outbound.ImageGeneratorPort
	)
	if pipelineConfig.MockGeneration {
		zeroLogger.Warn("Mock generation enabled, no provider will be called")
		textGenerator, imageGenerator = mockgenerator.Init(zeroLogger, mockgenerator.DefaultStoryFile)
	} else {
		gptConfig, err := config.GetGptConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get gpt config")
		}

		dalleConfig, err := config.GetDaLLeConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dalle config")
		}

		mediaStore := newMediaStore(pipelineConfig, sess, zeroLogger)
		contentFetcher := adapters.NewContentFetcher(zeroLogger)
		imageRenderer := adapters.NewDalleImageRenderer(contentFetcher, dalleConfig, zeroLogger)

		textGenerator = adapters.NewGptTextGenerator(gptConfig, zeroLogger)
		imageGenerator = adapters.NewStorybookIllustrator(imageRenderer, mediaStore, zeroLogger)
	}

	storyPipeline := services.NewStoryPipeline(
		zeroLogger,
		textGenerator,
		services.NewPromptBuilder(),
		services.NewResponseParser(zeroLogger),
		services.NewFallbackSynthesizer(),
		services.NewImageFanout(zeroLogger, imageGenerator, workerPool),
		pipelineConfig.Temperature,
	)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	controllers.RegisterHealthRoute(router)

	if pipelineConfig.JwksURL == "" {
		zeroLogger.Warn("JWKS_URL is not set, the story library is disabled")

		storyController := controllers.NewStoryController(zeroLogger, storyPipeline, nil, nil)
		storyController.RegisterRoutes(router, func(c *gin.Context) { c.Next() })
	} else {
		authHandler, err := middleware.NewAuthHandler(pipelineConfig.JwksURL, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}

		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}

		storyRepository := adapters.NewDynamoStoryRepository(zeroLogger, dynamodb.New(sess), dynamoConfig)
		storyLibrary := services.NewStoryLibrary(zeroLogger, storyRepository, pipelineConfig.AppURL)

		storyController := controllers.NewStoryController(zeroLogger, storyPipeline, storyLibrary,
			newStorySaver(pipelineConfig, zeroLogger))
		libraryController := controllers.NewLibraryController(zeroLogger, storyLibrary)

		storyController.RegisterRoutes(router, authHandler.OptionalAuthMiddleware())
		libraryController.RegisterRoutes(router, authHandler.AuthMiddleware())
	}

	err = router.Run(":" + pipelineConfig.Port)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

func newMediaStore(pipelineConfig *config.PipelineConfig, sess *session.Session, logger outbound.LoggerPort) outbound.MediaStorePort {
	if pipelineConfig.MediaStore == config.MediaStoreMinio {
		minioConfig, err := config.GetMinioConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get minio config")
		}

		minioClient, err := adapters.NewMinioClient(minioConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create minio client")
		}

		return adapters.NewMinioMediaStore(minioClient, minioConfig, logger)
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	return adapters.NewS3MediaStore(s3.New(sess), s3Config, logger)
}

// newStorySaver returns nil when no downstream story api is configured.
func newStorySaver(pipelineConfig *config.PipelineConfig, logger outbound.LoggerPort) outbound.StorySaverPort {
	if pipelineConfig.StoryApiURL == "" {
		return nil
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	authorizer := adapters.NewCognitoAuthorizer(logger, authConfig)
	return adapters.NewStorySaver(pipelineConfig.StoryApiURL, authorizer, logger)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Moim-App/internal/database"
	domainRepo "Moim-App/internal/domain/repository"
	"Moim-App/internal/domain/service"
	"Moim-App/internal/handler"
	"Moim-App/internal/infrastructure/analytics"
	postgresdb "Moim-App/internal/infrastructure/database"
	firestoreClient "Moim-App/internal/infrastructure/firestore"
	"Moim-App/internal/infrastructure/recommend"
	repoImpl "Moim-App/internal/repository"
	"Moim-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	recommendURL := os.Getenv("RECOMMEND_API_URL")
	if jwtSecret == "" || recommendURL == "" {
		log.Fatal("JWT_SECRET と RECOMMEND_API_URL 環境変数を設定してください")
	}

	ctx := context.Background()

	// Supabase（場所・ユーザーデータ）
	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Supabase connection successful!")

	// 場所リポジトリ: PostgreSQL直接接続があればPostGIS検索を優先する
	var placesRepo domainRepo.PlacesRepository
	if os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		pgClient, err := postgresdb.NewPostgreSQLClient()
		if err != nil {
			log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
		}
		defer pgClient.Close()
		placesRepo = repoImpl.NewPostgresPlacesRepository(pgClient)
		fmt.Println("✅ PostgreSQL (PostGIS) connection successful!")
	} else {
		placesRepo = repoImpl.NewSupabasePlacesRepository(supabaseClient)
	}

	usersRepo := repoImpl.NewSupabaseUsersRepository(supabaseClient)

	// セッションストア: Firestoreがあれば永続化、なければインメモリ
	var sessionRepo domainRepo.SessionRepository
	if projectID := os.Getenv("FIRESTORE_PROJECT_ID"); projectID != "" {
		fsClient, err := firestoreClient.NewFirestoreClient(ctx, projectID)
		if err != nil {
			log.Fatalf("Firestoreクライアント初期化失敗: %v", err)
		}
		defer fsClient.Close()
		sessionRepo = repoImpl.NewFirestoreSessionRepository(fsClient.GetClient(), 12) // 12時間TTL
	} else {
		fmt.Println("Warning: FIRESTORE_PROJECT_ID not set, using in-memory session store")
		sessionRepo = repoImpl.NewMemorySessionRepository(12 * time.Hour)
	}

	// 分析シンク（未設定ならNop）
	var actionSink domainRepo.ActionSink = analytics.NopActionSink{}
	if analyticsURL := os.Getenv("ANALYTICS_API_URL"); analyticsURL != "" {
		actionSink = analytics.NewHTTPActionSink(analyticsURL, os.Getenv("ANALYTICS_API_TOKEN"))
	}

	// サービス・ユースケースの組み立て
	resolver := service.NewOriginResolverService(usersRepo, placesRepo)
	cellService := service.NewDecisionCellService(sessionRepo)
	provider := recommend.NewRecommendClient(recommendURL, os.Getenv("RECOMMEND_API_TOKEN"))
	midpointUseCase := usecase.NewMidpointUseCase(resolver, cellService, provider, placesRepo, actionSink)
	renderer := service.NewOverlayRenderer(service.NewOverlayService(), nil)

	// ハンドラーの組み立て
	midpointHandler := handler.NewMidpointHandler(midpointUseCase)
	placesHandler := handler.NewPlacesHandler(placesRepo)
	cellHandler := handler.NewDecisionCellHandler(cellService)
	usersHandler := handler.NewUsersHandler(usersRepo)
	overlayHandler := handler.NewOverlayHandler(renderer, resolver, midpointUseCase, usersRepo)

	// ルーティング
	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "Moim-App"})
	})
	r.GET("/api/places/search", placesHandler.SearchPlaces)
	r.GET("/api/places/autocomplete", placesHandler.AutocompletePlaces)
	r.GET("/api/places/nearby", placesHandler.NearbyPlaces)
	r.GET("/api/places/:id", placesHandler.GetPlace)

	authorized := r.Group("/api", handler.AuthMiddleware(jwtSecret))
	{
		authorized.POST("/midpoint/search", midpointHandler.PostSearch)
		authorized.POST("/midpoint/query", midpointHandler.PostQuery)
		authorized.POST("/midpoint/tab", midpointHandler.PostTab)
		authorized.GET("/decision-cell", cellHandler.GetDecisionCell)
		authorized.PATCH("/decision-cell", cellHandler.PatchDecisionCell)
		authorized.GET("/users/me", usersHandler.GetMe)
		authorized.GET("/friends", usersHandler.GetFriends)
		authorized.POST("/overlay/plan", overlayHandler.PostPlan)
		authorized.DELETE("/overlay/session", overlayHandler.DeleteSession)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Moim-App server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("サーバーの起動に失敗: %v", err)
	}
}

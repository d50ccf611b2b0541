package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"mcportal/bridge"
	"mcportal/db"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func main() {
	_ = godotenv.Load()

	port := envOrDefault("PORT", "5000")
	dbName := envOrDefault("DB_FILE", "./mcportal.db")
	staticDir := envOrDefault("STATIC_DIR", "./static")

	mcServerHost = os.Getenv("MC_SERVER_IP")
	mcServerPort = 25565
	if raw := os.Getenv("MC_SERVER_PORT"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			log.Fatal("Invalid MC_SERVER_PORT:", err)
		}
		mcServerPort = uint16(parsed)
	}

	token := os.Getenv("DISCORD_TOKEN")
	channelID := os.Getenv("DISCORD_CHANNEL_ID")
	channelName := os.Getenv("DISCORD_CHANNEL_NAME")
	webBotName := envOrDefault("WEB_BOT_NAME", "WebChat")

	var err error
	db.SiteDB, err = db.InitSQLite(dbName)
	if err != nil {
		log.Fatal("Error opening site database:", err)
	}
	defer db.CloseDB(db.SiteDB)
	if err := ensureSiteSchema(); err != nil {
		log.Fatal("Error ensuring site schema:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var connector *bridge.Connector
	var chatBridge ChatBridge
	if token != "" && channelID != "" {
		connector, err = bridge.New(token, channelID, webBotName)
		if err != nil {
			log.Fatal("Error creating Discord bridge:", err)
		}
		chatBridge = connector
	} else {
		log.Println("Discord bridge disabled: DISCORD_TOKEN or DISCORD_CHANNEL_ID not set")
	}

	relay = NewRouter(chatBridge, NewNormalizer(channelName, webBotName), playerOnline)
	go relay.Run(ctx)

	if connector != nil {
		go func() {
			if err := connector.Start(ctx, relay.Inbound()); err != nil && err != context.Canceled {
				log.Printf("Discord bridge error: %v", err)
			}
		}()
	}

	if addr := os.Getenv("RCON_ADDRESS"); addr != "" {
		minecraftForwarder = &rconForwarder{address: addr, password: os.Getenv("RCON_PASSWORD")}
		log.Printf("RCON chat forwarding enabled (%s)", addr)
	}

	r := gin.Default()

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Second, Limit: 100})
	r.Use(ratelimit.RateLimiter(store, &ratelimit.Options{ErrorHandler: rateLimitErrorHandler, KeyFunc: keyFunc}))
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/ws", HandleSocket)

	r.GET("/api/playerCount", HandlePlayerCount)
	r.GET("/api/players", HandlePlayers)
	r.POST("/api/apply", HandleApply)
	r.POST("/api/wait-list", HandleWaitList)
	r.POST("/api/upload-image", HandleUploadImage)

	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})
	r.Static("/assets", filepath.Join(staticDir, "assets"))

	server := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited cleanly.")
}

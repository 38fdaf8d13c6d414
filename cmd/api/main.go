package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/docs"
	"github.com/ahwlsqja/permission-mw-signer/internal/authorization"
	"github.com/ahwlsqja/permission-mw-signer/internal/common/handler"
	"github.com/ahwlsqja/permission-mw-signer/internal/common/middleware"
	"github.com/ahwlsqja/permission-mw-signer/internal/config"
	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	pkgdb "github.com/ahwlsqja/permission-mw-signer/pkg/db"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/nonce"
	pkgredis "github.com/ahwlsqja/permission-mw-signer/pkg/redis"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title PermissionMw Register Signer API
// @version 1.0
// @description EIP-712 register authorizations for PermissionMw
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// 1) 로거 초기화
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 2) 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting server",
		zap.String("environment", cfg.Server.Environment),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("schema_variant", cfg.Signing.SchemaVariant),
	)

	// 3) DB 초기화
	db, err := pkgdb.Open(pkgdb.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Name:            cfg.Database.Name,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 4) Redis 초기화 (NONCE_STORE=redis 일 때만)
	var rdb *redis.Client
	if cfg.Signing.NonceStore == "redis" {
		rdb = pkgredis.New(pkgredis.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		defer rdb.Close()
	}

	// 5) 연결 테스트 (fail-fast)
	if err := testConnections(db, rdb); err != nil {
		logger.Fatal("failed to test connections", zap.Error(err))
	}

	// 6) 서명자 구성
	auth, err := buildAuthorizer(cfg.Signing, logger)
	if err != nil {
		logger.Fatal("failed to build authorizer", zap.Error(err))
	}

	// 7) 체인 연결 (선택)
	var client *ethclient.Client
	if cfg.Chain.RPCURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Chain.CallTimeout)
		client, err = chain.Dial(ctx, cfg.Chain.RPCURL, logger)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to chain", zap.Error(err))
		}
		defer client.Close()
	}

	// 8) Nonce 저장소
	nonces, closeNonces, err := newNonceStore(cfg.Signing, rdb, logger)
	if err != nil {
		logger.Fatal("failed to open nonce store", zap.Error(err))
	}
	defer closeNonces.Close()

	// 9) 라우터 구성
	deps := authorization.Deps{
		Repo:        pkgdb.NewTxRunner(db),
		Authorizer:  auth,
		Nonces:      nonces,
		Variant:     eip712.Variant(cfg.Signing.SchemaVariant),
		Logger:      logger,
		TxTimeout:   cfg.Chain.TxTimeout,
		CallTimeout: cfg.Chain.CallTimeout,
	}
	var chainReader handler.ChainReader
	if client != nil {
		chainReader = client
		deps.Oracle = chain.NewNonceOracle(common.HexToAddress(cfg.Chain.PermissionMw(cfg.Signing)), client, logger)
		deps.Registrar, err = buildRegistrar(cfg, client, logger)
		if err != nil {
			logger.Fatal("failed to build registrar", zap.Error(err))
		}
	}

	svc, err := authorization.NewService(deps)
	if err != nil {
		logger.Fatal("failed to build authorization service", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateBurst, logger)
	router := setupRouter(cfg, logger, db, rdb, chainReader, limiter, svc)

	// 10) HTTP 서버 생성
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 11) 서버 비동기 시작
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepLimiters(sweepCtx, limiter)

	logger.Info("server started",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("signer", auth.SignerAddress().Hex()),
		zap.String("domain_separator", auth.Domain().Separator().Hex()),
		zap.String("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port)),
	)

	// 12) 종료 시그널 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// 13) Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func testConnections(db *sql.DB, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pkgdb.Ping(ctx, db); err != nil {
		return err
	}
	if rdb == nil {
		return nil
	}
	return pkgredis.Ping(ctx, rdb)
}

// buildAuthorizer wires signer, domain, schema and v convention from config
func buildAuthorizer(cfg config.SigningConfig, logger *zap.Logger) (*authorizer.Authorizer, error) {
	s, err := signer.NewKeySignerFromHex(cfg.SignerPrivateKey)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(cfg.VerifyingContract) {
		return nil, fmt.Errorf("invalid verifying contract %q", cfg.VerifyingContract)
	}

	domain, err := eip712.NewDomain(cfg.DomainName, cfg.DomainVersion, uint256.NewInt(cfg.ChainID), common.HexToAddress(cfg.VerifyingContract))
	if err != nil {
		return nil, err
	}
	schema, err := eip712.DefaultRegistry().Lookup(eip712.Variant(cfg.SchemaVariant))
	if err != nil {
		return nil, err
	}
	convention, err := sigcodec.ParseConvention(cfg.VConvention)
	if err != nil {
		return nil, err
	}
	parent, err := parentNode(cfg)
	if err != nil {
		return nil, err
	}

	return authorizer.New(authorizer.Config{
		Domain:             domain,
		Schema:             schema,
		ParentNode:         parent,
		Convention:         convention,
		RequireLowS:        cfg.RequireLowS,
		DefaultDeadlineTTL: cfg.DeadlineTTL,
	}, s, logger)
}

// parentNode returns the configured parent node for the hierarchical schema.
// An explicit MOCA_NODE wins over the namehash of MOCA_NODE_NAME.
func parentNode(cfg config.SigningConfig) (*common.Hash, error) {
	if eip712.Variant(cfg.SchemaVariant) != eip712.VariantHierarchical {
		return nil, nil
	}
	if cfg.MocaNode != "" {
		b, err := hexutil.Decode(cfg.MocaNode)
		if err != nil || len(b) != common.HashLength {
			return nil, fmt.Errorf("MOCA_NODE must be 32 bytes of 0x-prefixed hex")
		}
		h := common.BytesToHash(b)
		return &h, nil
	}
	if cfg.MocaNodeName == "" {
		return nil, nil
	}
	h := chain.Namehash(cfg.MocaNodeName)
	return &h, nil
}

func buildRegistrar(cfg *config.Config, client *ethclient.Client, logger *zap.Logger) (authorization.Submitter, error) {
	if cfg.Chain.RegistrarAddress == "" || cfg.Chain.SubmitterPrivateKey == "" {
		logger.Info("registrar not configured, submit endpoint disabled")
		return nil, nil
	}
	submitter, err := signer.NewKeySignerFromHex(cfg.Chain.SubmitterPrivateKey)
	if err != nil {
		return nil, err
	}
	return chain.NewRegistrar(
		common.HexToAddress(cfg.Chain.RegistrarAddress),
		eip712.Variant(cfg.Signing.SchemaVariant),
		client,
		submitter.PrivateKey(),
		new(big.Int).SetUint64(cfg.Signing.ChainID),
		logger,
	)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newNonceStore opens the reservation backend named by NONCE_STORE
func newNonceStore(cfg config.SigningConfig, rdb *redis.Client, logger *zap.Logger) (nonce.Store, io.Closer, error) {
	switch cfg.NonceStore {
	case "badger":
		if cfg.NonceStorePath == "" {
			store, err := nonce.NewInMemoryBadgerStore(cfg.NonceTTL, logger)
			return store, store, err
		}
		store, err := nonce.NewBadgerStore(cfg.NonceStorePath, cfg.NonceTTL, logger)
		return store, store, err
	case "memory":
		return nonce.NewMemoryStore(cfg.NonceTTL), nopCloser{}, nil
	default:
		return nonce.NewRedisStoreWithTTL(rdb, cfg.NonceTTL, logger), nopCloser{}, nil
	}
}

func sweepLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

func setupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *sql.DB,
	rdb *redis.Client,
	chainReader handler.ChainReader,
	limiter *middleware.RateLimiter,
	service *authorization.Service,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(limiter.Middleware())

	// Swagger 설정
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(db, rdb, chainReader)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		authorization.NewHandler(service).RegisterRoutes(v1)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	return cors.New(corsConfig)
}

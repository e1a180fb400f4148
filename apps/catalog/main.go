package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-modelsdemo/apps/catalog/handler"
	"go-modelsdemo/apps/catalog/middleware"
	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/config"
	"go-modelsdemo/pkg/database"
	"go-modelsdemo/pkg/discovery"
	"go-modelsdemo/pkg/jwt"
	"go-modelsdemo/pkg/mq"
	"go-modelsdemo/pkg/sequence"
	"go-modelsdemo/pkg/tracer"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	c, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. 链路追踪
	shutdownTracer, err := tracer.InitTracer(c.Service.Name, c.Tracing)
	if err != nil {
		log.Fatalf("Failed to init tracer: %v", err)
	}

	// 2. 数据库
	db, err := database.Open(c.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// 3. 订单号生成器：有 Redis 用每日计数器，否则用 UUID
	var seq sequence.Generator = sequence.UUIDGenerator{}
	if c.Redis.Enabled {
		rdb, err := database.InitRedis(c.Redis)
		if err != nil {
			log.Fatalf("Failed to init redis: %v", err)
		}
		defer rdb.Close()
		seq = sequence.NewRedisGenerator(rdb)
	}

	// 4. 领域事件
	var pub mq.Publisher = mq.NopPublisher{}
	if c.RabbitMQ.Enabled {
		amqpPub, err := mq.NewAMQPPublisher(c.RabbitMQ.URL, c.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("[Catalog] RabbitMQ unavailable, events disabled: %v", err)
		} else {
			pub = amqpPub
		}
	}

	st := store.New(db, store.WithSequence(seq), store.WithPublisher(pub))
	if err := st.Migrate(); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	// 5. 限流
	var listLimit gin.HandlerFunc
	if c.Sentinel.Enabled {
		if err := middleware.InitSentinel(c.Sentinel); err != nil {
			log.Fatalf("Failed to init sentinel: %v", err)
		}
		listLimit = middleware.RateLimit(middleware.ResProductList)
	}

	// 6. HTTP 服务
	if !c.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	tokens := jwt.NewManager(c.Jwt.Secret, c.Jwt.TTL, c.Jwt.Issuer)
	router := handler.NewRouter(handler.New(st, tokens), listLimit,
		gin.Logger(), gin.Recovery(), otelgin.Middleware(c.Service.Name))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Service.Port),
		Handler:           servertiming.Middleware(router, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Catalog HTTP listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve http: %v", err)
		}
	}()

	// 7. gRPC health + reflection，供 Consul 检查
	grpcAddr := fmt.Sprintf(":%d", c.Service.GrpcPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(c.Service.Name, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		log.Printf("Catalog gRPC listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("failed to serve grpc: %v", err)
		}
	}()

	var reg *discovery.Registration
	if c.Consul.Enabled {
		reg, err = discovery.RegisterService(c.Service.Name, c.Service.GrpcPort, c.Consul.Address)
		if err != nil {
			log.Fatalf("Failed to register service: %v", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Catalog] shutting down")

	healthServer.Shutdown()
	if err := reg.Deregister(); err != nil {
		log.Printf("[Catalog] consul deregister: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("[Catalog] http shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	if err := pub.Close(); err != nil {
		log.Printf("[Catalog] close publisher: %v", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Printf("[Catalog] tracer shutdown: %v", err)
	}
}

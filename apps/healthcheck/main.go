// healthcheck 通过 Consul 找到目录服务实例并调用 gRPC 健康检查，
// 只有返回 SERVING 时退出码为 0
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-modelsdemo/pkg/config"

	_ "github.com/mbobakov/grpc-consul-resolver"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Target 生成 consul:// 地址，由 grpc-consul-resolver 解析为健康的实例
func Target(consulAddr, serviceName string) string {
	return fmt.Sprintf("consul://%s/%s?wait=14s&healthy=true", consulAddr, serviceName)
}

func check(ctx context.Context, target, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy": "round_robin"}`),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	timeout := flag.Duration("timeout", 5*time.Second, "overall timeout")
	direct := flag.String("addr", "", "dial host:port directly instead of resolving through Consul")
	flag.Parse()

	c, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	target := Target(c.Consul.Address, c.Service.Name)
	if *direct != "" {
		target = "passthrough:///" + *direct
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, err := check(ctx, target, c.Service.Name)
	if err != nil {
		log.Printf("[Healthcheck] %s: %v", target, err)
		os.Exit(1)
	}
	log.Printf("[Healthcheck] %s: %s", c.Service.Name, status)
	if status != healthpb.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}

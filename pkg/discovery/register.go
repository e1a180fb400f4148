package discovery

import (
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/consul/api"
)

// Registration 已注册到 Consul 的服务实例，关闭时调用 Deregister
type Registration struct {
	client    *api.Client
	ServiceID string
}

// RegisterService 将服务注册到 Consul，使用 gRPC health 检查
func RegisterService(serviceName string, grpcPort int, consulAddr string) (*Registration, error) {
	// 1. 获取 Consul 客户端
	config := api.DefaultConfig()
	config.Address = consulAddr
	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	// 2. 获取本机 IP (非 Loopback)
	localIP, err := getOutboundIP()
	if err != nil {
		return nil, err
	}

	// 3. ID 必须唯一，使用 "服务名-IP-端口"
	serviceID := fmt.Sprintf("%s-%s-%d", serviceName, localIP, grpcPort)

	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Port:    grpcPort,
		Address: localIP,
		Tags:    []string{"models-demo", "grpc"},
		Check: &api.AgentServiceCheck{
			// Consul 定期调用 grpc.health.v1.Health/Check
			GRPC:                           fmt.Sprintf("%s:%d/%s", localIP, grpcPort, serviceName),
			GRPCUseTLS:                     false,
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s", // 挂了30秒后自动注销
		},
	}

	// 4. 发送注册请求
	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, err
	}

	log.Printf("Service Registered: %s (ID: %s) at %s:%d", serviceName, serviceID, localIP, grpcPort)
	return &Registration{client: client, ServiceID: serviceID}, nil
}

// Deregister 主动注销，不必等健康检查超时
func (r *Registration) Deregister() error {
	if r == nil {
		return nil
	}
	return r.client.Agent().ServiceDeregister(r.ServiceID)
}

// getOutboundIP 获取本机对外 IP
// Docker 或局域网里不能注册 127.0.0.1，否则别的服务找不到
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go-modelsdemo/pkg/jwt"
)

// 配置
const (
	BaseURL     = "http://localhost:8080/models-demo"
	Issuer      = "go-modelsdemo"
	TotalClient = 50 // 并发请求数
)

// 统计器
var (
	statusCount = map[int]int{}
	mu          sync.Mutex
)

var paths = []string{"/", "/categories/", "/products/", "/products/?sort=price", "/reviews/", "/tags/", "/orders/"}

// Request 发起一次 GET，员工 Token 用于访问订单列表
func Request(id int, token string, wg *sync.WaitGroup) {
	defer wg.Done()

	path := paths[id%len(paths)]
	req, _ := http.NewRequest(http.MethodGet, BaseURL+path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("[Client %d] %s 请求失败: %v\n", id, path, err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	json.Unmarshal(body, &result)

	mu.Lock()
	defer mu.Unlock()
	statusCount[resp.StatusCode]++
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("[Client %d] %s -> %d %v\n", id, path, resp.StatusCode, result["msg"])
	}
}

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "models_demo_secret_key" // 必须与服务配置一致
	}
	token, err := jwt.NewManager(secret, time.Hour, Issuer).GenerateToken(1, "admin", true)
	if err != nil {
		fmt.Printf("生成 Token 失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("开始压测，并发数: %d\n", TotalClient)
	var wg sync.WaitGroup
	wg.Add(TotalClient)
	startTime := time.Now()

	for i := 0; i < TotalClient; i++ {
		go Request(i, token, &wg)
	}
	wg.Wait()

	fmt.Printf("测试结束，耗时: %v\n", time.Since(startTime))
	for code, n := range statusCount {
		fmt.Printf("HTTP %d: %d 次\n", code, n)
	}
}

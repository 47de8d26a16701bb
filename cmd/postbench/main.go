package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/d60-Lab/zenith/config"
	"github.com/d60-Lab/zenith/internal/repository"
	"github.com/d60-Lab/zenith/internal/service"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// pct 取 p 分位
func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	ctx := context.Background()
	store := must(repository.Open(ctx, cfg))
	defer store.Close(ctx)

	posts := service.NewPostService(store.Posts)

	N := envInt("N", 2000)
	CONC := envInt("CONC", 4)
	READS := envInt("READS", 50)
	words := envInt("WORDS", 400)
	body := strings.TrimSpace(strings.Repeat("lorem ipsum ", words/2))

	// 并发写入 N 篇文章
	workers := min(CONC, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	createCh := make(chan time.Duration, N)
	idCh := make(chan string, N)
	done := make(chan struct{}, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				p, err := posts.Create(ctx, service.CreatePostInput{
					Title:    fmt.Sprintf("bench post %d", i),
					Category: fmt.Sprintf("cat-%d", i%8),
					Content:  body,
				})
				createCh <- time.Since(st)
				if err == nil {
					idCh <- p.ID
				}
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	createDur := time.Since(t0)
	close(createCh)
	close(idCh)

	createRecs := make([]time.Duration, 0, N)
	for d := range createCh {
		createRecs = append(createRecs, d)
	}
	ids := make([]string, 0, N)
	for id := range idCh {
		ids = append(ids, id)
	}

	// 整表读取
	listRecs := make([]time.Duration, 0, READS)
	var listed int
	for i := 0; i < READS; i++ {
		st := time.Now()
		all, err := posts.List(ctx)
		listRecs = append(listRecs, time.Since(st))
		if err == nil {
			listed = len(all)
		}
	}

	// 按 id 读取与部分更新
	getRecs := make([]time.Duration, 0, READS)
	updRecs := make([]time.Duration, 0, READS)
	content := "updated " + body
	for i := 0; i < READS && i < len(ids); i++ {
		id := ids[(i*7919)%len(ids)]
		st := time.Now()
		_, _ = posts.Get(ctx, id)
		getRecs = append(getRecs, time.Since(st))

		st = time.Now()
		_, _ = posts.Update(ctx, id, service.UpdatePostInput{Content: &content})
		updRecs = append(updRecs, time.Since(st))
	}

	fmt.Printf("driver=%s N=%d CONC=%d READS=%d created=%d\n", store.Driver, N, CONC, READS, len(ids))
	fmt.Printf("Create total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		createDur, createDur/time.Duration(N), pct(createRecs, 0.50), pct(createRecs, 0.95), pct(createRecs, 0.99))
	fmt.Printf("List(%d) p50: %v, p95: %v, p99: %v\n", listed, pct(listRecs, 0.50), pct(listRecs, 0.95), pct(listRecs, 0.99))
	fmt.Printf("Get p50: %v, p95: %v\n", pct(getRecs, 0.50), pct(getRecs, 0.95))
	fmt.Printf("Update p50: %v, p95: %v\n", pct(updRecs, 0.50), pct(updRecs, 0.95))
}

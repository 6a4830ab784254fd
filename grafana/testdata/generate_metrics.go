// Package testdata drives simulated diagnosis traffic through the real
// troubleshoot service so Grafana dashboards can be built without production
// data.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
)

var descriptions = []string{
	"la hidrolavadora no enciende",
	"no enciende y huele a quemado",
	"gotea por la manguera",
	"hace un ruido raro",
	"pierde presión al rato",
	"",
}

var answers = []string{"si", "no", "si", "no", "quizas"}

func sampleBase() (*knowledge.Base, error) {
	return knowledge.New(
		[]knowledge.Fault{
			{Name: "Fusible quemado", Attributes: []knowledge.Attribute{"sin_energia", "olor_quemado"}, Solutions: []string{"Cambiar fusible"}},
			{Name: "Cable desconectado", Attributes: []knowledge.Attribute{"sin_energia"}, Solutions: []string{"Conectar el cable"}},
			{Name: "Manguera rota", Attributes: []knowledge.Attribute{"fuga_agua"}, Solutions: []string{"Reemplazar manguera"}},
			{Name: "Boquilla obstruida", Attributes: []knowledge.Attribute{"baja_presion", "pulsaciones"}, Solutions: []string{"Limpiar boquilla"}},
			{Name: "Bomba desgastada", Attributes: []knowledge.Attribute{"baja_presion", "ruido"}, Solutions: []string{"Revisar sellos de la bomba"}},
		},
		knowledge.KeywordMap{
			"sin_energia":  {"no enciende"},
			"olor_quemado": {"quemado"},
			"fuga_agua":    {"gotea"},
			"baja_presion": {"pierde presión"},
			"ruido":        {"ruido"},
		},
		knowledge.QuestionBank{
			"pulsaciones": "¿El chorro sale a pulsos?",
		},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	base, err := sampleBase()
	if err != nil {
		log.Fatal(err)
	}
	store, err := knowledge.NewStore(base, "", nil)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	svc, err := troubleshoot.NewService(store, nil, nil, troubleshoot.NewMetrics(reg))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 100; i++ {
		simulate(ctx, svc)
	}
	go generateContinuousData(ctx, svc)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
		server.Shutdown(context.Background())
	}()

	fmt.Printf("Sample metrics server running on http://localhost:%s/metrics\n", port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("\nTo use with Prometheus, add this to prometheus.yml:")
	fmt.Printf("  - job_name: 'faultdx-test'\n    static_configs:\n      - targets: ['localhost:%s']\n", port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// simulate runs one conversation to its end, or one similarity ranking.
func simulate(ctx context.Context, svc *troubleshoot.Service) {
	description := randomChoice(descriptions)
	if rand.Intn(4) == 0 {
		_, _ = svc.RankBySimilarity(ctx, description)
		return
	}

	step, err := svc.StartDiagnosis(ctx, description)
	if err != nil {
		return
	}
	for step.Kind == diagnosis.KindQuestion {
		next, err := svc.ContinueDiagnosis(ctx, step.State, randomChoice(answers))
		if err != nil {
			continue
		}
		step = next
	}
}

func generateContinuousData(ctx context.Context, svc *troubleshoot.Service) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := rand.Intn(10) + 1; i > 0; i-- {
				simulate(ctx, svc)
			}
		}
	}
}

func randomChoice(choices []string) string {
	return choices[rand.Intn(len(choices))]
}

package moderator

import (
    "encoding/json"
    "net/http"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/models"
)

type analyzeRequest struct {
    Content       string               `json:"content"`
    AuthorContext models.AuthorContext `json:"author_context"`
}

// Builds the HTTP surface: submission intake, synchronous analysis, the
// batch reanalysis trigger, and health/metrics endpoints.
func (m *moderatorService) routes() *http.ServeMux {
    mux := http.NewServeMux()

    mux.HandleFunc("/comments", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodPost {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }

        var comment models.Comment
        if err := json.NewDecoder(request.Body).Decode(&comment); err != nil {
            http.Error(writer, "failed to decode request", http.StatusBadRequest)
            logger.Log.Warn("Failed to decode incoming comment", zap.Error(err))
            return
        }

        if err := m.EnqueueComment(request.Context(), comment); err != nil {
            http.Error(writer, "failed to enqueue comment", http.StatusServiceUnavailable)
            logger.Log.Warn("Failed to enqueue comment", zap.Error(err))
            return
        }
        writer.WriteHeader(http.StatusAccepted)
        writer.Write([]byte("Comment enqueued"))
    })

    mux.HandleFunc("/analyze", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodPost {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }

        var req analyzeRequest
        if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
            http.Error(writer, "failed to decode request", http.StatusBadRequest)
            return
        }

        result := m.Analyze(req.Content, req.AuthorContext)

        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(result)
    })

    mux.HandleFunc("/reanalyze", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodPost {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }

        limit := 0
        if raw := request.URL.Query().Get("limit"); raw != "" {
            parsed, err := strconv.Atoi(raw)
            if err != nil || parsed < 0 {
                http.Error(writer, "invalid limit", http.StatusBadRequest)
                return
            }
            limit = parsed
        }

        result, err := m.ReanalyzeBatch(request.Context(), limit)
        if err != nil {
            http.Error(writer, "batch reanalysis failed", http.StatusInternalServerError)
            logger.Log.Error("Batch reanalysis failed", zap.Error(err))
            return
        }

        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(result)
    })

    // /metrics endpoint for Prometheus
    mux.Handle("/metrics", promhttp.Handler())

    // /health endpoint
    mux.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
        health := struct {
            Status     string    `json:"status"`
            QueueDepth int       `json:"queue_depth"`
            Workers    int       `json:"workers"`
            Uptime     string    `json:"uptime"`
            StartTime  time.Time `json:"start_time"`
        }{
            Status:     "OK",
            QueueDepth: m.QueueDepth(),
            Workers:    m.WorkerCount(),
            Uptime:     time.Since(m.StartTime()).String(),
            StartTime:  m.StartTime(),
        }

        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(health)
    })

    return mux
}

func startHTTP(m *moderatorService, port string) {
    logger.Log.Info("Moderation HTTP service listening", zap.String("address", ":"+port))

    if err := http.ListenAndServe(":"+port, m.routes()); err != nil {
        logger.Log.Fatal("Failed to start moderation service", zap.Error(err))
    }
}

package audit

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "sync"
    "time"

    "go.uber.org/zap"

    "moderator/internal/pkg/logger"
    "moderator/internal/pkg/metrics"
    "moderator/internal/pkg/models"
)

// One audit trail entry per automatic disposition.
type Record struct {
    CommentID   string            `json:"comment_id"`
    AuthorEmail string            `json:"author_email"`
    Action      models.Action     `json:"action"`
    Score       int               `json:"score"`
    Confidence  float64           `json:"confidence"`
    FlagTypes   []models.FlagType `json:"flag_types,omitempty"`
    Batch       bool              `json:"batch"`
    RecordedAt  time.Time         `json:"recorded_at"`
}

// Buffers audit records until a threshold is reached or the flush interval
// elapses, then ships them as an NDJSON bulk request to the document store.
type BulkRecorder struct {
    mutex        sync.Mutex
    buffer       []*Record
    threshold    int
    flushChannel chan struct{}
    done         chan struct{}
    auditURL     string
    indexName    string
    maxRetries   int
}

// Creates a new BulkRecorder and starts its flush loop.
func NewBulkRecorder(threshold int, auditURL, indexName string, flushIntervalSeconds, maxRetries int) *BulkRecorder {
    recorder := &BulkRecorder{
        buffer:       make([]*Record, 0, threshold),
        threshold:    threshold,
        flushChannel: make(chan struct{}, 1),
        done:         make(chan struct{}),
        auditURL:     auditURL,
        indexName:    indexName,
        maxRetries:   maxRetries,
    }
    go recorder.startFlushing(time.Duration(flushIntervalSeconds) * time.Second)
    return recorder
}

// Flushes when signaled or when the interval elapses.
func (recorder *BulkRecorder) startFlushing(interval time.Duration) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    for {
        select {
        case <-recorder.done:
            return
        case <-recorder.flushChannel:
            recorder.flush()
        case <-ticker.C:
            recorder.flush()
        }
    }
}

// Adds a record to the buffer and signals a flush if the threshold is met.
func (recorder *BulkRecorder) Add(record *Record) {
    recorder.mutex.Lock()
    defer recorder.mutex.Unlock()

    recorder.buffer = append(recorder.buffer, record)
    if len(recorder.buffer) >= recorder.threshold {
        select {
        case recorder.flushChannel <- struct{}{}:
        default:
            // flush already signaled
        }
    }
}

// Stops the flush loop and performs a final synchronous flush.
func (recorder *BulkRecorder) Stop() {
    close(recorder.done)
    recorder.flush()
}

// Builds the NDJSON payload and sends it to the bulk endpoint.
func (recorder *BulkRecorder) flush() {
    recorder.mutex.Lock()
    if len(recorder.buffer) == 0 {
        recorder.mutex.Unlock()
        return
    }
    records := recorder.buffer
    recorder.buffer = make([]*Record, 0, recorder.threshold)
    recorder.mutex.Unlock()

    var payload bytes.Buffer
    for _, record := range records {
        meta := map[string]map[string]string{
            "index": {"_index": recorder.indexName},
        }
        metaLine, err := json.Marshal(meta)
        if err != nil {
            logger.Log.Error("Failed to marshal audit meta line", zap.Error(err))
            continue
        }
        payload.Write(metaLine)
        payload.WriteByte('\n')

        recordLine, err := json.Marshal(record)
        if err != nil {
            logger.Log.Error("Failed to marshal audit record", zap.Error(err))
            continue
        }
        payload.Write(recordLine)
        payload.WriteByte('\n')
    }

    logger.Log.Debug("Flushing audit records", zap.Int("count", len(records)))
    metrics.AuditFlushes.Inc()

    go recorder.sendBulkRequest(payload.Bytes())
}

// Sends the bulk payload, retrying on failure up to maxRetries times.
func (recorder *BulkRecorder) sendBulkRequest(payload []byte) {
    for attempt := 0; attempt <= recorder.maxRetries; attempt++ {
        if attempt > 0 {
            time.Sleep(time.Duration(attempt) * time.Second)
        }

        request, err := http.NewRequestWithContext(context.Background(), "POST", recorder.auditURL, bytes.NewReader(payload))
        if err != nil {
            logger.Log.Error("Failed to create audit bulk request", zap.Error(err))
            metrics.AuditFailures.Inc()
            return
        }
        request.Header.Set("Content-Type", "application/x-ndjson")

        response, err := http.DefaultClient.Do(request)
        if err != nil {
            logger.Log.Warn("Audit bulk request failed",
                zap.Int("attempt", attempt+1),
                zap.Error(err))
            continue
        }
        response.Body.Close()

        if response.StatusCode >= 200 && response.StatusCode < 300 {
            return
        }
        logger.Log.Warn("Audit bulk request rejected",
            zap.Int("attempt", attempt+1),
            zap.Int("status_code", response.StatusCode))
    }

    metrics.AuditFailures.Inc()
    logger.Log.Error("Giving up on audit bulk request",
        zap.Int("max_retries", recorder.maxRetries))
}

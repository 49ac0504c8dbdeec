package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/classifier"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/logging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/mask"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/recommend"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/render"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/repository"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/segmenter"
)

// AnalysisRepository defines the persistence operations needed by the use
// case.
type AnalysisRepository interface {
	SaveLog(ctx context.Context, log *repository.AnalysisLog) error
	FindByRequestIDAndUser(ctx context.Context, requestID, userID string) (*repository.AnalysisLog, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// Analysis is the complete outcome of one image analysis. A rejected image
// carries only the verdict; an accepted one carries statistics, risk grading,
// rendered artifacts, and recommendations.
type Analysis struct {
	RequestID       string
	Filename        string
	Accepted        bool
	Reason          string
	Statistics      mask.Statistics
	RiskLevel       mask.RiskLevel
	ModelVersion    string
	OriginalPNG     []byte
	OverlayPNG      []byte
	HeatmapPNG      []byte
	Recommendations []recommend.Recommendation
	CreatedAt       time.Time
}

// AnalysisUseCase orchestrates the gate, segmentation, rendering,
// persistence, and caching of the analysis flow.
type AnalysisUseCase struct {
	repo           AnalysisRepository
	cache          Cache
	segmenter      segmenter.Client
	advisor        recommend.Advisor
	logger         *zap.Logger
	blendStrength  float64
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type cachedAnalysis struct {
	RequestID          string    `json:"request_id"`
	UserID             string    `json:"user_id"`
	Filename           string    `json:"filename"`
	Accepted           bool      `json:"accepted"`
	Reason             string    `json:"reason"`
	TotalPixels        int64     `json:"total_pixels"`
	PositivePixels     int64     `json:"positive_pixels"`
	PositivePercentage float64   `json:"positive_percentage"`
	RiskLevel          string    `json:"risk_level"`
	ModelVersion       string    `json:"model_version"`
	Hash               string    `json:"sha1_hash"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewAnalysisUseCase constructs a new use case instance.
func NewAnalysisUseCase(repo AnalysisRepository, cache Cache, seg segmenter.Client, advisor recommend.Advisor, logger *zap.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		repo:           repo,
		cache:          cache,
		segmenter:      seg,
		advisor:        advisor,
		logger:         logger.Named("analysis_usecase"),
		blendStrength:  render.DefaultBlendStrength,
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// Analyze runs the full pipeline over uploaded bytes: decode, acceptance
// gate, segmentation, statistics, rendering, recommendations, persistence.
// A rejected image is a normal business outcome, not an error.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, userID, filename string, imageBytes []byte) (*Analysis, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.analyze", requestID)
	started := time.Now()

	cacheKey := fmt.Sprintf("analysis:%s", requestID)
	if err := uc.withRedisRetry(ctx, requestID, "cache.set.processing", func() error {
		return uc.cache.Set(ctx, cacheKey, "processing", time.Minute)
	}); err != nil {
		opLogger.Error("failed to set processing flag", zap.Error(err))
		return nil, err
	}

	img, err := imaging.Decode(imageBytes)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.decode_image", requestID, err)
		opLogger.Warn("upload is not a decodable image", zap.Error(wrapped))
		return nil, wrapped
	}

	hash := sha1.Sum(imageBytes)
	hashHex := hex.EncodeToString(hash[:])

	verdict := classifier.Classify(img)
	if !verdict.Accepted {
		opLogger.Info("image rejected by acceptance gate", zap.String("reason", verdict.Reason))
		analysis := &Analysis{
			RequestID: requestID,
			Filename:  filename,
			Accepted:  false,
			Reason:    verdict.Reason,
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.persistAndCache(ctx, userID, hashHex, cacheKey, started, analysis); err != nil {
			return nil, err
		}
		return analysis, nil
	}

	tensor := imaging.TensorBytes(imaging.SegmentTensor(img))
	segResult, err := uc.segmenter.Segment(ctx, requestID, tensor)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.segment", requestID, err)
		opLogger.Error("segmentation failed", zap.Error(wrapped))
		return nil, wrapped
	}

	m, err := mask.New(segResult.Labels, segResult.Width, segResult.Height)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.segment", requestID, err)
		opLogger.Error("segmenter returned malformed mask", zap.Error(wrapped))
		return nil, wrapped
	}

	stats := m.Stats()
	risk := stats.Risk()

	overlayImg, err := render.Overlay(img, m)
	if err != nil {
		return nil, logging.NewOperationError("usecase.render_overlay", requestID, err)
	}
	heatmapImg, err := render.HeatmapFromMask(img, m, uc.blendStrength)
	if err != nil {
		return nil, logging.NewOperationError("usecase.render_heatmap", requestID, err)
	}

	originalPNG, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, logging.NewOperationError("usecase.encode_png", requestID, err)
	}
	overlayPNG, err := imaging.EncodePNG(overlayImg)
	if err != nil {
		return nil, logging.NewOperationError("usecase.encode_png", requestID, err)
	}
	heatmapPNG, err := imaging.EncodePNG(heatmapImg)
	if err != nil {
		return nil, logging.NewOperationError("usecase.encode_png", requestID, err)
	}

	recs, err := uc.advisor.Recommend(ctx, risk, stats)
	if err != nil {
		opLogger.Warn("advisor failed, using static recommendations", zap.Error(err))
		recs = recommend.Static(risk)
	}

	analysis := &Analysis{
		RequestID:       requestID,
		Filename:        filename,
		Accepted:        true,
		Reason:          verdict.Reason,
		Statistics:      stats,
		RiskLevel:       risk,
		ModelVersion:    segResult.ModelVersion,
		OriginalPNG:     originalPNG,
		OverlayPNG:      overlayPNG,
		HeatmapPNG:      heatmapPNG,
		Recommendations: recs,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.persistAndCache(ctx, userID, hashHex, cacheKey, started, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// persistAndCache saves the analysis log and caches its summary (images are
// not cached; they are rebuilt deterministically from the same input).
func (uc *AnalysisUseCase) persistAndCache(ctx context.Context, userID, hashHex, cacheKey string, started time.Time, a *Analysis) error {
	opLogger := logging.WithOperation(uc.logger, "usecase.persist", a.RequestID)

	log := &repository.AnalysisLog{
		RequestID:          a.RequestID,
		UserID:             userID,
		Filename:           a.Filename,
		Accepted:           a.Accepted,
		Reason:             a.Reason,
		TotalPixels:        int64(a.Statistics.TotalPixels),
		PositivePixels:     int64(a.Statistics.PositivePixels),
		PositivePercentage: a.Statistics.PositivePercentage,
		RiskLevel:          string(a.RiskLevel),
		ModelVersion:       a.ModelVersion,
		SHA1Hash:           hashHex,
		LatencyMs:          time.Since(started).Milliseconds(),
		CreatedAt:          a.CreatedAt,
	}
	if err := uc.repo.SaveLog(ctx, log); err != nil {
		wrapped := logging.NewOperationError("usecase.save_log", a.RequestID, err)
		opLogger.Error("failed to persist analysis log", zap.Error(wrapped))
		return wrapped
	}

	cached := cachedAnalysis{
		RequestID:          a.RequestID,
		UserID:             userID,
		Filename:           a.Filename,
		Accepted:           a.Accepted,
		Reason:             a.Reason,
		TotalPixels:        log.TotalPixels,
		PositivePixels:     log.PositivePixels,
		PositivePercentage: log.PositivePercentage,
		RiskLevel:          log.RiskLevel,
		ModelVersion:       log.ModelVersion,
		Hash:               hashHex,
		CreatedAt:          a.CreatedAt,
	}
	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Error("failed to serialize analysis result", zap.Error(err))
		return err
	}

	if err := uc.withRedisRetry(ctx, a.RequestID, "cache.set.result", func() error {
		return uc.cache.Set(ctx, cacheKey, string(serialized), 5*time.Minute)
	}); err != nil {
		opLogger.Error("failed to cache analysis result", zap.Error(err))
		return err
	}
	return nil
}

// GetResult retrieves a cached analysis outcome or loads from persistence.
func (uc *AnalysisUseCase) GetResult(ctx context.Context, userID, requestID string) (*repository.AnalysisLog, error) {
	cacheKey := fmt.Sprintf("analysis:%s", requestID)
	if cached, err := uc.withRedisGet(ctx, requestID, "cache.get.result", cacheKey); err == nil {
		var payload cachedAnalysis
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to decode cached result", zap.Error(err))
		} else if payload.RequestID != "" {
			return &repository.AnalysisLog{
				RequestID:          payload.RequestID,
				UserID:             payload.UserID,
				Filename:           payload.Filename,
				Accepted:           payload.Accepted,
				Reason:             payload.Reason,
				TotalPixels:        payload.TotalPixels,
				PositivePixels:     payload.PositivePixels,
				PositivePercentage: payload.PositivePercentage,
				RiskLevel:          payload.RiskLevel,
				ModelVersion:       payload.ModelVersion,
				SHA1Hash:           payload.Hash,
				CreatedAt:          payload.CreatedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to read cache", zap.Error(err))
	}

	return uc.repo.FindByRequestIDAndUser(ctx, requestID, userID)
}

func (uc *AnalysisUseCase) withRedisRetry(ctx context.Context, requestID, operation string, fn func() error) error {
	if uc.retryAttempts <= 1 {
		err := fn()
		return logging.NewOperationError(operation, requestID, err)
	}

	backoff := uc.initialBackoff
	opLogger := logging.WithOperation(uc.logger, operation, requestID)
	var err error
	for attempt := 0; attempt < uc.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, requestID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= uc.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("redis operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == uc.retryAttempts-1 {
			opLogger.Error("redis operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, requestID, err)
		}

		opLogger.Warn("transient redis error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, requestID, err)
}

func (uc *AnalysisUseCase) withRedisGet(ctx context.Context, requestID, operation, cacheKey string) (string, error) {
	var result string
	err := uc.withRedisRetry(ctx, requestID, operation, func() error {
		value, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}

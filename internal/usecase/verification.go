package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/authenx/internal/auth"
	"github.com/example/authenx/internal/config"
	"github.com/example/authenx/internal/editcheck"
	"github.com/example/authenx/internal/geotag"
	"github.com/example/authenx/internal/inference"
	"github.com/example/authenx/internal/logging"
	"github.com/example/authenx/internal/metadata"
	"github.com/example/authenx/internal/obs"
)

// VerifyRequest is the inbound verification payload. Exactly one of
// ImageURL and ImageBase64 is expected; inline data wins when both are set.
// AssetID is carried through to logs only.
type VerifyRequest struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
	AssetID     string `json:"asset_id"`
}

// Result carries the final verdict plus every intermediate signal for
// response transparency.
type Result struct {
	IsReal            bool
	AuthenticityScore float64
	RealismScore      float64
	Editing           editcheck.Verdict
	Geotag            geotag.Validity
	Metadata          metadata.Metadata
}

// VerificationUseCase runs the sequential authenticity pipeline: resolve
// input, extract metadata, detect editing, validate the geotag, estimate
// realism, and combine the signals. It holds no per-request state.
type VerificationUseCase struct {
	cfg        config.Config
	extractor  *metadata.Extractor
	primary    inference.Estimator // nil when no inference credential is configured
	fallback   inference.Estimator
	metrics    *obs.Metrics
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVerificationUseCase constructs the pipeline. primary may be nil, in
// which case every realism score comes from the fallback estimator.
func NewVerificationUseCase(cfg config.Config, primary, fallback inference.Estimator, metrics *obs.Metrics, logger *zap.Logger) *VerificationUseCase {
	return &VerificationUseCase{
		cfg:        cfg,
		extractor:  metadata.NewExtractor(logger),
		primary:    primary,
		fallback:   fallback,
		metrics:    metrics,
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     logger.Named("verification_usecase"),
	}
}

// VerifyImage runs the full pipeline. Only input-resolution failures
// return an error; every downstream failure degrades to a fallback value.
func (uc *VerificationUseCase) VerifyImage(ctx context.Context, req VerifyRequest) (*Result, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.verify_image", requestID)
	if req.AssetID != "" {
		opLogger = opLogger.With(zap.String("asset_id", req.AssetID))
	}
	if subject, ok := auth.GetSubject(ctx); ok {
		opLogger = opLogger.With(zap.String("subject", subject))
	}
	started := time.Now()

	imageBytes, err := uc.resolveImage(ctx, req)
	if err != nil {
		opLogger.Warn("input resolution failed", zap.Error(err))
		return nil, err
	}

	meta := uc.extractor.Extract(imageBytes)
	editing := editcheck.Inspect(meta.Software, meta.CameraModel)
	geo := geotag.Check(meta.GPS)
	realism := uc.estimateRealism(ctx, requestID, imageBytes)
	score := combineScore(meta, realism, editing.Edited, geo.Valid)

	result := &Result{
		IsReal:            score >= uc.cfg.Threshold,
		AuthenticityScore: score,
		RealismScore:      realism,
		Editing:           editing,
		Geotag:            geo,
		Metadata:          meta,
	}

	if uc.metrics != nil {
		uc.metrics.ObserveVerification(result.IsReal, time.Since(started))
	}
	opLogger.Info("image verified",
		zap.Float64("authenticity_score", score),
		zap.Float64("realism_score", realism),
		zap.Bool("is_real", result.IsReal),
		zap.Bool("editing_detected", editing.Edited),
		zap.Bool("geotag_valid", geo.Valid))

	return result, nil
}

// estimateRealism applies the two-tier strategy: external inference first,
// local heuristic on any failure. The fallback never errors.
func (uc *VerificationUseCase) estimateRealism(ctx context.Context, requestID string, image []byte) float64 {
	if uc.primary != nil {
		score, err := uc.primary.Estimate(ctx, image)
		if err == nil {
			if uc.metrics != nil {
				uc.metrics.ObserveRealismSource("inference")
			}
			return score
		}
		logging.WithOperation(uc.logger, "usecase.estimate_realism", requestID).
			Warn("inference failed, using local heuristic", zap.Error(err))
	}

	score, _ := uc.fallback.Estimate(ctx, image)
	if uc.metrics != nil {
		uc.metrics.ObserveRealismSource("fallback")
	}
	return score
}

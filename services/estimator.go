package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"time"

	"delivery-eta-api/features"
	"delivery-eta-api/models"
	"delivery-eta-api/predictor"
	"delivery-eta-api/schema"

	"github.com/google/uuid"
)

// EstimatorService runs the feature pipeline for one order and asks the model
// for an estimate. All of its collaborators are built once at startup and
// never change, so a single instance serves concurrent requests.
type EstimatorService struct {
	builder features.Builder
	aligner *schema.Aligner
	model   predictor.Predictor
	cache   *CacheService
	ttl     time.Duration
	now     func() time.Time
}

func NewEstimatorService(b features.Builder, a *schema.Aligner, m predictor.Predictor, cache *CacheService, ttl time.Duration) (*EstimatorService, error) {
	if b == nil || a == nil || m == nil {
		return nil, &schema.ConfigurationError{Artifact: "estimator", Err: fmt.Errorf("builder, aligner and model are required")}
	}
	if b.Variant() != m.Variant() {
		return nil, &schema.ConfigurationError{
			Artifact: "estimator",
			Err:      fmt.Errorf("model %s expects %q features, builder derives %q", m.Version(), m.Variant(), b.Variant()),
		}
	}
	return &EstimatorService{
		builder: b,
		aligner: a,
		model:   m,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (s *EstimatorService) Variant() features.Variant { return s.builder.Variant() }

func (s *EstimatorService) ModelVersion() string { return s.model.Version() }

func (s *EstimatorService) Schema() *schema.Schema { return s.aligner.Schema() }

func (s *EstimatorService) Vocabulary() schema.Vocabulary { return s.aligner.Vocabulary() }

// Align exposes the first two pipeline stages, for callers that want to see
// the record the model receives.
func (s *EstimatorService) Align(o features.RawOrder) (features.DerivedFeatures, schema.Record, error) {
	d, err := s.builder.Build(o)
	if err != nil {
		return features.DerivedFeatures{}, schema.Record{}, err
	}
	return d, s.aligner.Align(d), nil
}

// Dropped lists the columns d expands to that the schema has no place for.
func (s *EstimatorService) Dropped(d features.DerivedFeatures) []string {
	return s.aligner.Dropped(d)
}

// Estimate returns the predicted delivery time for o. Errors from the
// feature builder are returned unchanged so callers can tell a bad request
// from a model failure.
func (s *EstimatorService) Estimate(ctx context.Context, o features.RawOrder) (*models.Estimate, error) {
	start := time.Now()
	defer func() {
		estimateDuration.Observe(time.Since(start).Seconds())
	}()

	d, rec, err := s.Align(o)
	if err != nil {
		estimatesRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	key := s.cacheKey(rec)
	var cached models.Estimate
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		estimateCacheHits.Inc()
		cached.ID = uuid.NewString()
		cached.TS = s.now().UTC()
		cached.MarketID = o.MarketID
		cached.Features = featureMap(d)
		cached.Cached = true
		s.served(ctx, &cached)
		return &cached, nil
	}

	minutes, err := s.model.Predict(rec)
	if err != nil {
		estimatesRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, fmt.Errorf("predict with model %s: %w", s.model.Version(), err)
	}

	est := &models.Estimate{
		ID:           uuid.NewString(),
		TS:           s.now().UTC(),
		Minutes:      minutes,
		ModelVersion: s.model.Version(),
		Variant:      string(s.builder.Variant()),
		MarketID:     o.MarketID,
		Features:     featureMap(d),
	}

	if s.cache.Available() {
		snapshot := *est
		go func() {
			if err := s.cache.Set(context.Background(), key, snapshot, s.ttl); err != nil {
				log.Printf("estimate cache set failed: %v", err)
			}
		}()
	}

	s.served(ctx, est)
	return est, nil
}

func (s *EstimatorService) served(ctx context.Context, est *models.Estimate) {
	estimatesServed.Inc()
	estimateMinutes.Observe(est.Minutes)
	if err := s.cache.Publish(ctx, EstimatesChannel, est); err != nil {
		log.Printf("estimate publish failed id=%s: %v", est.ID, err)
	}
}

// cacheKey identifies an aligned record under the loaded model. Two orders
// that align to the same record get the same estimate.
func (s *EstimatorService) cacheKey(rec schema.Record) string {
	h := sha256.New()
	h.Write([]byte(s.model.Version()))
	var buf [8]byte
	for _, v := range rec.Values() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return estimateKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func featureMap(d features.DerivedFeatures) map[string]float64 {
	fs := d.Features()
	out := make(map[string]float64, len(fs))
	for _, f := range fs {
		out[f.Name] = f.Value
	}
	return out
}

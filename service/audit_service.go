package service

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Aashish23092/financial-auditor/benford"
	"github.com/Aashish23092/financial-auditor/dto"
	"github.com/Aashish23092/financial-auditor/extractor"
)

// TextRecognizer is the OCR engine used for scanned PDFs and image uploads.
type TextRecognizer interface {
	RecognizeImage(img image.Image) (string, float64, error)
	RecognizeBytes(data []byte) (string, float64, error)
}

// Reporter renders a finished analysis into a downloadable document.
type Reporter interface {
	Render(res *dto.AnalyzeResponse) ([]byte, error)
}

type Options struct {
	// MinPDFTextChars is the text-layer length below which a PDF is OCRed instead.
	MinPDFTextChars int
	BatchWorkers    int
}

type AuditService struct {
	pdfProcessor PDFProcessor
	ocr          TextRecognizer
	tables       TableReader
	qr           QRDecoder
	reporter     Reporter
	metrics      *Metrics
	opts         Options

	now   func() time.Time
	newID func() string
}

func NewAuditService(
	pdfProcessor PDFProcessor,
	ocr TextRecognizer,
	tables TableReader,
	qr QRDecoder,
	reporter Reporter,
	metrics *Metrics,
	opts Options,
) *AuditService {
	if opts.BatchWorkers < 1 {
		opts.BatchWorkers = 1
	}
	return &AuditService{
		pdfProcessor: pdfProcessor,
		ocr:          ocr,
		tables:       tables,
		qr:           qr,
		reporter:     reporter,
		metrics:      metrics,
		opts:         opts,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// extraction is what a document yields before digit analysis
type extraction struct {
	sample     extractor.NumericSample
	confidence float64
}

// Analyze extracts the numbers of one document and runs the Benford analysis on them.
// Extraction and analysis failures are returned as-is so callers can tell
// *extractor.EmptyInputError and *benford.NoValidDigitsError apart.
func (s *AuditService) Analyze(ctx context.Context, doc dto.Document) (res *dto.AnalyzeResponse, err error) {
	start := time.Now()

	source, err := dto.DetectSource(doc.Filename)
	if err != nil {
		return nil, err
	}

	defer func() {
		s.finish(ctx, source, doc.Filename, start, res, err)
	}()

	ext, err := s.extract(ctx, source, doc)
	if err != nil {
		return nil, err
	}

	res, err = s.analyze(ext, source, fingerprint(doc.Data))
	if err != nil {
		return nil, err
	}
	res.Filename = doc.Filename
	return res, nil
}

// AnalyzeText runs the analysis over already-extracted text.
func (s *AuditService) AnalyzeText(ctx context.Context, text string) (res *dto.AnalyzeResponse, err error) {
	start := time.Now()
	defer func() {
		s.finish(ctx, dto.SourceText, "", start, res, err)
	}()

	sample, err := extractor.FromText(text)
	if err != nil {
		return nil, err
	}
	return s.analyze(extraction{sample: sample}, dto.SourceText, fingerprint([]byte(text)))
}

// AnalyzeBatch analyses every document independently. A failing document is reported
// in its item and does not affect the others; only cancellation aborts the batch.
func (s *AuditService) AnalyzeBatch(ctx context.Context, docs []dto.Document) (*dto.BatchResponse, error) {
	items := make([]dto.BatchItem, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchWorkers)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			item := dto.BatchItem{Filename: doc.Filename}
			res, err := s.Analyze(gctx, doc)
			if err != nil {
				errResp := dto.NewErrorResponse(err)
				item.Error = &errResp
			} else {
				item.Result = res
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch analysis interrupted: %w", err)
	}

	resp := &dto.BatchResponse{
		Items:       items,
		ProcessedAt: s.now().Format(time.RFC3339),
	}
	for _, item := range items {
		if item.Error != nil {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}
	return resp, nil
}

// Report analyses doc and renders the audit report. No report is rendered when the
// analysis fails.
func (s *AuditService) Report(ctx context.Context, doc dto.Document) ([]byte, *dto.AnalyzeResponse, error) {
	res, err := s.Analyze(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	if s.reporter == nil {
		return nil, nil, fmt.Errorf("report rendering is not configured")
	}

	pdf, err := s.reporter.Render(res)
	if err != nil {
		return nil, nil, err
	}
	return pdf, res, nil
}

func (s *AuditService) extract(ctx context.Context, source dto.SourceKind, doc dto.Document) (extraction, error) {
	switch source {
	case dto.SourceCSV:
		table, err := s.tables.ReadCSV(doc.Data)
		if err != nil {
			return extraction{}, err
		}
		return fromTable(table)
	case dto.SourceXLSX:
		table, err := s.tables.ReadXLSX(doc.Data)
		if err != nil {
			return extraction{}, err
		}
		return fromTable(table)
	case dto.SourceText:
		return fromText(string(doc.Data), 0)
	case dto.SourcePDF:
		text, conf, err := s.pdfText(ctx, doc)
		if err != nil {
			return extraction{}, err
		}
		return fromText(text, conf)
	case dto.SourceImage:
		text, conf, err := s.imageText(doc)
		if err != nil {
			return extraction{}, err
		}
		return fromText(text, conf)
	default:
		return extraction{}, fmt.Errorf("%w: %s", dto.ErrUnsupportedFileType, source)
	}
}

// pdfText reads the text layer and falls back to OCR of the page images when the
// layer is missing or too short, as with scanned statements.
func (s *AuditService) pdfText(ctx context.Context, doc dto.Document) (string, float64, error) {
	text, textErr := s.pdfProcessor.ExtractText(doc.Data, doc.Password)
	if textErr != nil {
		log.Warn().Err(textErr).Str("filename", doc.Filename).Msg("pdf text extraction failed")
	}
	if len(strings.TrimSpace(text)) >= s.opts.MinPDFTextChars {
		return text, 100.0, nil
	}

	log.Info().Str("filename", doc.Filename).Msg("pdf has little or no text layer, attempting OCR")

	ocrText, conf, ocrErr := s.ocrPages(ctx, doc)
	if ocrErr == nil && strings.TrimSpace(ocrText) != "" {
		return ocrText, conf, nil
	}
	if ocrErr != nil {
		log.Warn().Err(ocrErr).Str("filename", doc.Filename).Msg("scanned pdf OCR failed")
	}
	if textErr != nil {
		return "", 0, fmt.Errorf("failed to read pdf %s: %w", doc.Filename, textErr)
	}
	return text, 100.0, nil
}

func (s *AuditService) ocrPages(ctx context.Context, doc dto.Document) (string, float64, error) {
	if s.ocr == nil {
		return "", 0, fmt.Errorf("ocr is not configured")
	}

	images, err := s.pdfProcessor.ExtractImages(doc.Data, doc.Password)
	if err != nil {
		return "", 0, err
	}
	if len(images) == 0 {
		return "", 0, fmt.Errorf("no page images found in pdf")
	}

	var combined strings.Builder
	var totalConfidence float64
	var pages int
	for idx, img := range images {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		pageText, conf, err := s.ocr.RecognizeImage(img)
		if err != nil {
			log.Warn().Err(err).Int("page", idx+1).Str("filename", doc.Filename).Msg("page OCR failed")
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += conf
		pages++
	}

	if pages == 0 {
		return "", 0, fmt.Errorf("OCR failed on all %d pages", len(images))
	}
	return combined.String(), totalConfidence / float64(pages), nil
}

// imageText combines any QR payload with the OCR text of an image upload.
func (s *AuditService) imageText(doc dto.Document) (string, float64, error) {
	var parts []string

	if s.qr != nil {
		if img, err := decodeImage(doc.Data); err != nil {
			log.Debug().Err(err).Str("filename", doc.Filename).Msg("image not decodable for QR scan")
		} else if payload, err := s.qr.Decode(img); err == nil && payload != "" {
			log.Info().Str("filename", doc.Filename).Msg("QR payload found")
			parts = append(parts, payload)
		}
	}

	var conf float64
	if s.ocr != nil {
		text, c, err := s.ocr.RecognizeBytes(doc.Data)
		switch {
		case err == nil:
			parts = append(parts, text)
			conf = c
		case len(parts) == 0:
			return "", 0, fmt.Errorf("image OCR failed: %w", err)
		default:
			log.Warn().Err(err).Str("filename", doc.Filename).Msg("image OCR failed, using QR payload only")
		}
	} else if len(parts) == 0 {
		return "", 0, fmt.Errorf("ocr is not configured")
	}

	return strings.Join(parts, "\n"), conf, nil
}

func fromText(text string, confidence float64) (extraction, error) {
	sample, err := extractor.FromText(text)
	if err != nil {
		return extraction{}, err
	}
	return extraction{sample: sample, confidence: confidence}, nil
}

func fromTable(table extractor.Table) (extraction, error) {
	sample, err := extractor.FromTable(table)
	if err != nil {
		return extraction{}, err
	}
	return extraction{sample: sample}, nil
}

func (s *AuditService) analyze(ext extraction, source dto.SourceKind, fp string) (*dto.AnalyzeResponse, error) {
	analysis, err := benford.Analyze(ext.sample)
	if err != nil {
		return nil, err
	}

	summary, err := summarize(ext.sample)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sample: %w", err)
	}

	histogram := make(map[int]int, benford.NumDigits)
	for d := 1; d <= benford.NumDigits; d++ {
		histogram[d] = analysis.Histogram.Count(d)
	}

	skipped := make([]dto.SkippedValue, 0, len(analysis.Skipped))
	for _, m := range analysis.Skipped {
		skipped = append(skipped, dto.SkippedValue{Index: m.Index, Reason: m.Error()})
	}

	digit, delta := analysis.Result.LargestDeviation()

	return &dto.AnalyzeResponse{
		ID:               s.newID(),
		Fingerprint:      fp,
		Source:           source,
		OCRConfidence:    ext.confidence,
		Sample:           summary,
		Zeros:            analysis.Zeros,
		Valid:            analysis.Valid,
		Skipped:          skipped,
		Histogram:        histogram,
		Distribution:     analysis.Result,
		Deviations:       analysis.Result.Deviations(),
		LargestDeviation: dto.DigitDeviation{Digit: digit, Delta: delta},
		Chart:            analysis.Result.Chart(),
		ProcessedAt:      s.now().Format(time.RFC3339),
	}, nil
}

// summarize describes the finite values of the sample; infinities cannot be encoded
// as JSON and were already reported as skipped.
func summarize(sample extractor.NumericSample) (dto.SampleSummary, error) {
	finite := make(stats.Float64Data, 0, len(sample))
	for _, v := range sample {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}

	summary := dto.SampleSummary{Count: len(sample)}
	if len(finite) == 0 {
		return summary, nil
	}

	var err error
	if summary.Min, err = finite.Min(); err != nil {
		return summary, err
	}
	if summary.Max, err = finite.Max(); err != nil {
		return summary, err
	}
	if summary.Mean, summary.Median, err = center(finite, summary.Min, summary.Max); err != nil {
		return summary, err
	}
	return summary, nil
}

// center returns the mean and median. Sums of values near math.MaxFloat64 overflow,
// so in that case both are computed on the sample scaled down by a power of two,
// which is exact, and scaled back up.
func center(data stats.Float64Data, lo, hi float64) (float64, float64, error) {
	mean, err := data.Mean()
	if err != nil {
		return 0, 0, err
	}
	median, err := data.Median()
	if err != nil {
		return 0, 0, err
	}
	if !math.IsInf(mean, 0) && !math.IsInf(median, 0) {
		return mean, median, nil
	}

	_, exp := math.Frexp(math.Max(math.Abs(lo), math.Abs(hi)))
	scaled := make(stats.Float64Data, len(data))
	for i, v := range data {
		scaled[i] = math.Ldexp(v, -exp)
	}

	if mean, err = scaled.Mean(); err != nil {
		return 0, 0, err
	}
	if median, err = scaled.Median(); err != nil {
		return 0, 0, err
	}
	return math.Ldexp(mean, exp), math.Ldexp(median, exp), nil
}

func (s *AuditService) finish(ctx context.Context, source dto.SourceKind, filename string, start time.Time, res *dto.AnalyzeResponse, err error) {
	if err != nil {
		errResp := dto.NewErrorResponse(err)
		log.Warn().Err(err).Str("filename", filename).Str("source", string(source)).
			Str("code", errResp.Error).Msg("analysis failed")
		s.metrics.record(ctx, string(source), start, 0, errResp.Error)
		return
	}

	log.Info().Str("id", res.ID).Str("filename", filename).Str("source", string(source)).
		Int("values", res.Valid).Dur("took", time.Since(start)).Msg("analysis completed")
	s.metrics.record(ctx, string(source), start, res.Valid, "")
}

func fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

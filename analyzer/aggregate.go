package analyzer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hangxie/parquet-go/v2/parquet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hangxie/parquet-analyzer/model"
)

// ChunkRecord is one column chunk of one row group
type ChunkRecord struct {
	RowGroup int
	Column   int
	Meta     *parquet.ColumnMetaData
}

// ChunkRecords lists every column chunk of a footer in file order
func ChunkRecords(meta *parquet.FileMetaData) ([]ChunkRecord, error) {
	var records []ChunkRecord
	for rg, rowGroup := range meta.RowGroups {
		if rowGroup == nil {
			return nil, fmt.Errorf("%w: row group %d is missing", model.ErrFormat, rg)
		}
		for col, chunk := range rowGroup.Columns {
			if chunk == nil || chunk.MetaData == nil {
				return nil, fmt.Errorf("%w: column %d of row group %d has no metadata", model.ErrFormat, col, rg)
			}
			records = append(records, ChunkRecord{RowGroup: rg, Column: col, Meta: chunk.MetaData})
		}
	}
	return records, nil
}

// Aggregator merges column chunk statistics into one summary per column path
type Aggregator struct {
	opts   Options
	leaves *leafIndex
	pages  PageSource
}

// NewAggregator creates an aggregator. schema is the footer's flat schema, it
// supplies logical types and repetition labels. A nil page source estimates
// pages.
func NewAggregator(schema []*parquet.SchemaElement, pages PageSource, opts Options) (*Aggregator, error) {
	opts = opts.withDefaults()
	root, err := parseSchemaTree(schema)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = PageEstimator{PageSize: opts.PageSize}
	}
	return &Aggregator{
		opts:   opts,
		leaves: newLeafIndex(root),
		pages:  pages,
	}, nil
}

// Aggregate merges the records by column path. The result is in first
// discovery order and does not depend on the order of records.
func (a *Aggregator) Aggregate(ctx context.Context, records []ChunkRecord) ([]model.ColumnSummary, error) {
	groups := groupByRowGroup(records)

	partials := make([]*partial, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Parallelism)
	for i, group := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = a.extract(group)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := fold(partials)
	if merged == nil {
		return []model.ColumnSummary{}, nil
	}
	summaries := make([]model.ColumnSummary, 0, len(merged.order))
	for _, path := range merged.order {
		summary := merged.columns[path].finish()
		for _, diag := range summary.Diagnostics {
			a.opts.Logger.Debug("column diagnostic",
				zap.String("column", path),
				zap.String("kind", string(diag.Kind)),
				zap.Int("row_group", diag.RowGroup),
				zap.String("message", diag.Message))
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// groupByRowGroup buckets records by row group, buckets are sorted by row
// group index and keep the column order of the footer
func groupByRowGroup(records []ChunkRecord) [][]ChunkRecord {
	byIndex := map[int][]ChunkRecord{}
	for _, rec := range records {
		byIndex[rec.RowGroup] = append(byIndex[rec.RowGroup], rec)
	}
	indexes := make([]int, 0, len(byIndex))
	for rg := range byIndex {
		indexes = append(indexes, rg)
	}
	slices.Sort(indexes)

	groups := make([][]ChunkRecord, len(indexes))
	for i, rg := range indexes {
		group := byIndex[rg]
		slices.SortStableFunc(group, func(x, y ChunkRecord) int { return x.Column - y.Column })
		groups[i] = group
	}
	return groups
}

// extract builds the partial summaries of one row group
func (a *Aggregator) extract(records []ChunkRecord) *partial {
	p := newPartial()
	for _, rec := range records {
		meta := rec.Meta
		path := strings.Join(meta.PathInSchema, ".")
		elem := a.leaves.lookup(meta.PathInSchema)
		physical := meta.Type.String()
		stats := extractStatistics(rec.RowGroup, meta, elem, a.opts)
		pages, diag := a.pages.Pages(rec.RowGroup, rec.Column, meta)

		acc := &accumulator{
			rowGroup: rec.RowGroup,
			summary: model.ColumnSummary{
				Name:             path,
				PhysicalType:     physical,
				LogicalType:      columnLogicalType(elem, physical),
				Compression:      meta.Codec.String(),
				UncompressedSize: meta.TotalUncompressedSize,
				CompressedSize:   meta.TotalCompressedSize,
				Values:           meta.NumValues,
				NullCount:        stats.nullCount,
				DistinctCount:    stats.distinctCount,
				MinValue:         stats.min,
				MaxValue:         stats.max,
				NumPages:         len(pages),
				Pages:            pages,
				PathInSchema:     path,
				RepetitionType:   repetitionLabel(elem),
				ConvertedType:    convertedLabel(elem),
				Diagnostics:      stats.diagnostics,
			},
			encodings: map[string]struct{}{},
		}
		for _, enc := range meta.Encodings {
			acc.encodings[enc.String()] = struct{}{}
		}
		if diag != nil {
			acc.summary.Diagnostics = append(acc.summary.Diagnostics, *diag)
		}
		p.add(path, acc)
	}
	return p
}

// fold merges the partials left to right. Partials are sorted by row group,
// so every chunk is merged into the running summary of all earlier row
// groups and an incomparable chunk only drops its own min/max.
func fold(partials []*partial) *partial {
	if len(partials) == 0 {
		return nil
	}
	merged := partials[0]
	for _, p := range partials[1:] {
		mergePartials(merged, p)
	}
	return merged
}

// partial is an ordered path to accumulator map
type partial struct {
	order   []string
	columns map[string]*accumulator
}

func newPartial() *partial {
	return &partial{columns: map[string]*accumulator{}}
}

func (p *partial) add(path string, acc *accumulator) {
	if existing, found := p.columns[path]; found {
		existing.merge(acc)
		return
	}
	p.order = append(p.order, path)
	p.columns[path] = acc
}

func mergePartials(left, right *partial) *partial {
	for _, path := range right.order {
		left.add(path, right.columns[path])
	}
	return left
}

// accumulator is a column summary under construction, rowGroup is the row
// group of its first sighting
type accumulator struct {
	rowGroup  int
	summary   model.ColumnSummary
	encodings map[string]struct{}
}

// merge folds a later sighting into the accumulator. Sizes and counts add up,
// min/max widen, everything else keeps the first sighting.
func (acc *accumulator) merge(later *accumulator) {
	s, o := &acc.summary, &later.summary
	s.UncompressedSize += o.UncompressedSize
	s.CompressedSize += o.CompressedSize
	s.Values += o.Values
	s.NullCount = addOptional(s.NullCount, o.NullCount)
	for enc := range later.encodings {
		acc.encodings[enc] = struct{}{}
	}
	s.Diagnostics = append(s.Diagnostics, o.Diagnostics...)

	if o.MinValue != nil && o.MaxValue != nil {
		if s.MinValue == nil || s.MaxValue == nil {
			s.MinValue, s.MaxValue = o.MinValue, o.MaxValue
		} else if err := acc.widen(o.MinValue, o.MaxValue); err != nil {
			s.Diagnostics = append(s.Diagnostics, warning(model.DiagIncomparableStatistics, later.rowGroup,
				"%s: min/max skipped: %v", s.Name, err))
		}
	}

	s.Pages = append(s.Pages, o.Pages...)
	s.NumPages += o.NumPages
}

// widen extends min/max, both bounds are compared before either is applied
func (acc *accumulator) widen(minValue, maxValue any) error {
	s := &acc.summary
	cmpMin, err := compareValues(minValue, s.MinValue)
	if err != nil {
		return err
	}
	cmpMax, err := compareValues(maxValue, s.MaxValue)
	if err != nil {
		return err
	}
	if cmpMin < 0 {
		s.MinValue = minValue
	}
	if cmpMax > 0 {
		s.MaxValue = maxValue
	}
	return nil
}

func (acc *accumulator) finish() model.ColumnSummary {
	s := acc.summary
	s.Encodings = make([]string, 0, len(acc.encodings))
	for enc := range acc.encodings {
		s.Encodings = append(s.Encodings, enc)
	}
	slices.Sort(s.Encodings)
	if s.Pages == nil {
		s.Pages = []model.Page{}
	}
	if s.Diagnostics == nil {
		s.Diagnostics = []model.Diagnostic{}
	}
	s.CompressionRatio = model.Ratio(s.CompressedSize, s.UncompressedSize)
	return s
}

func addOptional(a, b *int64) *int64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return copyInt64(b)
	case b == nil:
		return copyInt64(a)
	}
	sum := *a + *b
	return &sum
}

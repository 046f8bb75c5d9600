package ilrskema

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/ilrskema/schema"
)

type column struct {
	header string
	el     *schema.Element
}

// ValidateRows validates a batch with a Validator built from opts.
func ValidateRows(ctx context.Context, rows []Row, headers []string, reg *schema.Registry, opts Options) (Result, error) {
	return NewValidator(opts).Rows(ctx, rows, headers, reg)
}

// Rows resolves headers against reg, checks that every required field of the
// record has a column, then validates every field of every row.
//
// Data problems come back in the Result. A non-nil error means the column
// configuration cannot be used (see ConfigError) or ctx was cancelled; the
// Result is then empty and not Valid.
func (v *Validator) Rows(ctx context.Context, rows []Row, headers []string, reg *schema.Registry) (Result, error) {
	log := v.opts.logger()
	cols, err := v.resolveColumns(headers, reg)
	if err != nil {
		return Result{Issues: Issues{}}, err
	}
	record := reg.Root()
	if v.opts.RecordPath != "" {
		el, ok := reg.ElementByPath(v.opts.RecordPath)
		if !ok {
			return Result{Issues: Issues{}}, &ConfigError{Column: v.opts.RecordPath, Reason: ErrUnknownRecordPath}
		}
		record = el
	}

	issues := v.missingHeaders(record, cols)
	rowIssues, err := v.evalRows(ctx, rows, cols)
	if err != nil {
		return Result{Issues: Issues{}}, err
	}
	issues = append(issues, rowIssues...)

	res := NewResult(issues)
	log.Debug("rows validated",
		"rows", len(rows),
		"columns", len(cols),
		"errors", res.ErrorCount,
		"warnings", res.WarningCount,
		"workers", v.workers(len(rows)))
	return res, nil
}

// resolveColumns maps each header to a simple schema element. Headers that
// match nothing are skipped; every configuration problem is reported at once.
func (v *Validator) resolveColumns(headers []string, reg *schema.Registry) ([]column, error) {
	log := v.opts.logger()
	var (
		cols []column
		errs []error
		seen = make(map[string]bool, len(headers))
	)
	for _, h := range headers {
		if seen[h] {
			log.Debug("duplicate column header skipped", "column", h)
			continue
		}
		seen[h] = true

		var el *schema.Element
		if path, ok := v.opts.Mapping[h]; ok {
			e, found := reg.ElementByPath(path)
			if !found {
				errs = append(errs, &ConfigError{Column: h, Reason: ErrUnknownMappingPath, Candidates: []string{path}})
				continue
			}
			el = e
		} else {
			cands := reg.ElementsByName(h)
			switch len(cands) {
			case 0:
				log.Debug("column does not match any schema element", "column", h)
				continue
			case 1:
				el = cands[0]
			default:
				paths := make([]string, len(cands))
				for i, c := range cands {
					paths[i] = c.Path
				}
				errs = append(errs, &ConfigError{Column: h, Reason: ErrAmbiguousColumn, Candidates: paths})
				continue
			}
		}
		if el.IsComplex() {
			errs = append(errs, &ConfigError{Column: h, Reason: ErrComplexColumn, Candidates: []string{el.Path}})
			continue
		}
		cols = append(cols, column{header: h, el: el})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cols, nil
}

// missingHeaders reports every required simple child of record that no
// column resolved to.
func (v *Validator) missingHeaders(record *schema.Element, cols []column) Issues {
	covered := make(map[*schema.Element]bool, len(cols))
	for _, c := range cols {
		covered[c.el] = true
	}
	var out Issues
	for _, child := range record.Children {
		if child.IsComplex() || !child.Cardinality.Required() || covered[child] {
			continue
		}
		params := map[string]any{"field": child.Name}
		out = append(out, Issue{
			Code:       CodeMissingRequiredHeader,
			Message:    v.tr.Message(CodeMissingRequiredHeader, messageData(child.Name, params)),
			Path:       child.Path,
			Row:        NoRow,
			Field:      child.Name,
			Constraint: child.Cardinality.String(),
			Params:     params,
			Severity:   Error,
		})
	}
	return out
}

func (v *Validator) workers(rows int) int {
	w := v.opts.Workers
	if w < 1 {
		w = 1
	}
	if w > rows {
		w = rows
	}
	if w < 1 {
		w = 1
	}
	return w
}

// evalRows validates rows, splitting them into contiguous ranges when more
// than one worker is configured. Issues come back in row order.
func (v *Validator) evalRows(ctx context.Context, rows []Row, cols []column) (Issues, error) {
	byHeader := make(map[string]*schema.Element, len(cols))
	for _, c := range cols {
		byHeader[c.header] = c.el
	}
	w := v.workers(len(rows))
	if w == 1 {
		return v.evalRange(ctx, rows, 0, cols, byHeader)
	}

	parts := make([]Issues, w)
	size := (len(rows) + w - 1) / w
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w; i++ {
		i := i
		lo := i * size
		hi := min(lo+size, len(rows))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			iss, err := v.evalRange(gctx, rows[lo:hi], lo, cols, byHeader)
			parts[i] = iss
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out Issues
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func (v *Validator) evalRange(ctx context.Context, rows []Row, offset int, cols []column, byHeader map[string]*schema.Element) (Issues, error) {
	var out Issues
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := offset + i
		for _, c := range cols {
			var raw any
			if s, ok := row[c.header]; ok {
				raw = s
			}
			out = append(out, v.Value(raw, c.el, At(idx, c.header))...)
		}
		if len(v.opts.RowRules) == 0 {
			continue
		}
		rc := RowContext{Ctx: ctx, Index: idx, Row: row, Columns: byHeader}
		for _, rule := range v.opts.RowRules {
			if rule == nil {
				continue
			}
			for _, iss := range rule(rc) {
				iss.Row = idx
				if iss.Code == "" {
					iss.Code = CodeRule
				}
				if iss.Message == "" {
					iss.Message = v.tr.Message(iss.Code, messageData(iss.Field, map[string]any{"rule": iss.Rule}))
				}
				out = append(out, iss)
			}
		}
	}
	return out, nil
}

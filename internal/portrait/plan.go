package portrait

import (
	"diced-portraits/internal/bundle"
	"diced-portraits/internal/layers"
	"diced-portraits/internal/variant"
)

// Job is one portrait to composite and save.
type Job struct {
	Name    string // file name without extension
	Dir     string // variant subdirectory, "" for the standard variant
	Layers  []string
	Mirror  bool
	Body    string
	Core    string
	Variant string
}

// BodyPlan holds every portrait of one body. All jobs share Canvas.
type BodyPlan struct {
	Body   string
	Canvas bundle.Rect
	Jobs   []Job
}

// Planner turns layer groups into portrait jobs.
type Planner struct {
	Rects           map[string]bundle.Rect
	Accessories     layers.Accessories
	Options         variant.Options
	PlaceholderBody string // always gets body-only portraits
}

// CanvasFor returns the shared canvas of body: the union of the body, the
// preferred frame of every expression base in g and every accessory the
// body may receive. ok is false when the body has no rect or the canvas is
// empty.
func (p *Planner) CanvasFor(body string, g layers.Group) (bundle.Rect, bool) {
	if _, ok := p.Rects[body]; !ok {
		return bundle.Rect{}, false
	}

	names := []string{body}
	for _, base := range g.Eyes.Bases() {
		if f := variant.BestEyeFrame(g.Eyes.Frames(base)); f != "" {
			names = append(names, base+"_"+f)
		}
	}
	for _, base := range g.Mouths.Bases() {
		if f := variant.BestMouthFrame(g.Mouths.Frames(base)); f != "" {
			names = append(names, base+"_"+f)
		}
	}
	names = append(names, p.Accessories.For(body).All()...)
	names = append(names, p.Accessories.CheekFor(body)...)

	var rs []bundle.Rect
	for _, n := range names {
		if r, ok := p.Rects[n]; ok {
			rs = append(rs, r)
		}
	}
	canvas, ok := UnionRect(rs)
	if !ok {
		canvas = p.Rects[body]
	}
	if sz := CanvasSize(canvas); sz.X <= 0 || sz.Y <= 0 {
		return bundle.Rect{}, false
	}
	return canvas, true
}

// PlanGroup plans every portrait of every body in g. Bodies without a rect
// or with an empty canvas are returned in skipped.
func (p *Planner) PlanGroup(g layers.Group) (plans []BodyPlan, skipped []string) {
	for _, body := range g.Bodies {
		canvas, ok := p.CanvasFor(body, g)
		if !ok {
			skipped = append(skipped, body)
			continue
		}
		plan := BodyPlan{Body: body, Canvas: canvas}
		variants := variant.Enumerate(
			p.Accessories.For(body), p.Accessories.CheekFor(body), p.Options)

		add := func(name, core string, expr []string) {
			for _, v := range variants {
				ls := make([]string, 0, 1+len(expr)+len(v.Layers))
				ls = append(ls, body)
				ls = append(ls, expr...)
				ls = append(ls, v.Layers...)
				plan.Jobs = append(plan.Jobs, Job{
					Name:    name + v.Suffix(),
					Dir:     v.Subdir(),
					Layers:  ls,
					Mirror:  v.Mirror,
					Body:    body,
					Core:    core,
					Variant: v.Subdir(),
				})
			}
		}

		hasEyes, hasMouths := g.Eyes.Len() > 0, g.Mouths.Len() > 0
		if (!hasEyes && !hasMouths) || body == p.PlaceholderBody {
			add(body, "", nil)
		}

		switch {
		case hasEyes && hasMouths:
			for _, pair := range layers.PairCores(g.Eyes, g.Mouths) {
				prefix := exprPrefix(body, pair.Core)
				for _, e := range pair.Eyes {
					for _, ef := range g.Eyes.Frames(e.Base) {
						for _, m := range pair.Mouths {
							for _, mf := range g.Mouths.Frames(m.Base) {
								add(prefix+"_"+e.Unique+ef+"_"+m.Unique+mf, pair.Core,
									[]string{e.Base + "_" + ef, m.Base + "_" + mf})
							}
						}
					}
				}
			}
		case hasMouths:
			for _, base := range g.Mouths.Bases() {
				m := layers.ParseExpr(base)
				for _, mf := range g.Mouths.Frames(base) {
					add(exprPrefix(body, m.Core)+"_"+m.Unique+mf, m.Core,
						[]string{base + "_" + mf})
				}
			}
		case hasEyes:
			for _, base := range g.Eyes.Bases() {
				e := layers.ParseExpr(base)
				for _, ef := range g.Eyes.Frames(base) {
					add(exprPrefix(body, e.Core)+"_"+e.Unique+ef, e.Core,
						[]string{base + "_" + ef})
				}
			}
		}

		plans = append(plans, plan)
	}
	return plans, skipped
}

func exprPrefix(body, core string) string {
	if core == "" || core == body {
		return body
	}
	return body + "_" + core
}

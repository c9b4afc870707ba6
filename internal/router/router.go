// Package router connects the intent classifier to the advisor registry:
// it classifies the raw query, invokes the advisor for each resolved domain
// tag and assembles one formatted reply. One failing advisor never
// suppresses the answers of the others.
package router

import (
	"context"
	"log"
	"time"

	"github.com/rcoe/askme/internal/intent"
	"github.com/rcoe/askme/pkg/advisor"
)

// Result is the router's answer to one inbound query.
type Result struct {
	Reply          string               // Formatted reply text
	Artifact       *advisor.ArtifactRef // Non-nil when an advisor staged binary output
	DomainsInvoked []advisor.Intent     // Advisors invoked, in dispatch order
}

// section is one advisor's contribution to the reply.
type section struct {
	domain advisor.Intent
	result advisor.Result
}

// Router dispatches classified queries to registered advisors.
type Router struct {
	classifier intent.Classifier
	registry   *advisor.Registry
	now        func() time.Time
}

// New creates a router over the given classifier and registry.
func New(classifier intent.Classifier, registry *advisor.Registry) *Router {
	return &Router{
		classifier: classifier,
		registry:   registry,
		now:        time.Now,
	}
}

// Route classifies the query and invokes every resolved advisor in order.
// The returned error is reserved for context cancellation; advisor and
// backend failures are rendered into the reply.
func (r *Router) Route(ctx context.Context, q advisor.Query) (*Result, error) {
	outcome := r.classifier.Classify(ctx, q.Text)

	tags := outcome.Tags
	if !outcome.Decided || len(tags) == 0 {
		tags = []advisor.Intent{advisor.IntentGeneral}
	}
	log.Printf("[Router] Query classified to %v (source %s)", tags, outcome.Source)

	sections := make([]section, 0, len(tags))
	for _, tag := range tags {
		resolved, result, err := r.invoke(ctx, tag, q)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section{domain: resolved, result: result})
	}

	res := &Result{
		Reply:          r.formatReply(sections),
		DomainsInvoked: make([]advisor.Intent, 0, len(sections)),
	}
	for _, s := range sections {
		res.DomainsInvoked = append(res.DomainsInvoked, s.domain)
		if res.Artifact == nil && s.result.Artifact != nil {
			res.Artifact = s.result.Artifact
		}
	}
	return res, nil
}

// invoke runs one advisor, substituting the general advisor for unknown
// tags and converting unexpected advisor errors into inline reply text.
// The returned domain is the advisor that actually handled the query, which
// differs from tag on the degraded path.
func (r *Router) invoke(ctx context.Context, tag advisor.Intent, q advisor.Query) (advisor.Intent, advisor.Result, error) {
	a, ok := r.registry.Lookup(tag)
	if !ok {
		log.Printf("[Router] No advisor registered for %s, falling back to general", tag)
		a, ok = r.registry.Lookup(advisor.IntentGeneral)
		if !ok {
			return tag, advisor.Result{Reply: "No advisor is available to handle this question right now."}, nil
		}
		tag = advisor.IntentGeneral
	}

	result, err := a.Handle(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return tag, advisor.Result{}, err
		}
		log.Printf("[Router] Advisor %s failed: %v", tag, err)
		return tag, advisor.Result{Reply: "The " + string(tag) + " advisor encountered an unexpected error. Please try again."}, nil
	}
	return tag, result, nil
}

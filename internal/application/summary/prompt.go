package summary

import (
	"fmt"
	"strings"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
)

const summarySystemPrompt = `You are an HR assistant helping childcare center administrators review staff observation logs. You summarize manager-written observations about a staff member into a concise, factual brief. Stick strictly to what the observations say; never invent incidents or speculate about motives.`

// buildSummaryPrompt renders the subject's observations as a numbered
// list with dates and asks for a structured five-part summary.
func buildSummaryPrompt(sub *subject.Subject, observations []*observation.Observation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Staff member: %s (%s)\n", sub.Name(), sub.Role().Label())
	fmt.Fprintf(&b, "Observations: %d, from %s to %s\n\n",
		len(observations),
		biztime.FormatInBizTimezone(observations[0].ObservedAt(), "2 Jan 2006"),
		biztime.FormatInBizTimezone(observations[len(observations)-1].ObservedAt(), "2 Jan 2006"),
	)

	for i, obs := range observations {
		fmt.Fprintf(&b, "%d. [%s", i+1, biztime.FormatInBizTimezone(obs.ObservedAt(), "2 Jan 2006"))
		if t := obs.ObservationType(); t != nil {
			fmt.Fprintf(&b, ", %s", *t)
		}
		fmt.Fprintf(&b, "] %s\n", obs.Transcript())
	}

	b.WriteString(`
Write a summary with these sections, in markdown:
1. Overall impression
2. Strengths
3. Areas of concern
4. Patterns over time
5. Suggested follow-ups

Keep it under 400 words. Base every point on the numbered observations above.`)

	return b.String()
}

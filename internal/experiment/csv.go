package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per trial. StepsToClean is left empty for runs
// that never reached a fully clean grid, so spreadsheet tooling treats them
// as missing values rather than zeros.
func WriteCSV(w io.Writer, trials []Trial) error {
	cw := csv.NewWriter(w)
	header := []string{
		"numAgents", "repetition", "seed",
		"stepsToClean", "cleanPercentage", "totalMovements",
		"maxStepsReached", "totalSteps",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, tr := range trials {
		steps := ""
		if tr.Results.StepsToClean > 0 {
			steps = strconv.Itoa(tr.Results.StepsToClean)
		}
		row := []string{
			strconv.Itoa(tr.Agents),
			strconv.Itoa(tr.Repetition),
			strconv.FormatInt(tr.Seed, 10),
			steps,
			strconv.FormatFloat(tr.Results.CleanPercentage, 'f', 2, 64),
			strconv.Itoa(tr.Results.TotalMovements),
			strconv.FormatBool(tr.Results.MaxStepsReached),
			strconv.Itoa(tr.Results.TotalSteps),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package flame

import (
	"fmt"
	"io"
)

// PrintDiagnostics writes a human-readable dump of the detector state to w,
// followed by a tab-separated raw/baseline line for external plotting tools.
// Strictly a reporting side effect; the algorithm never reads this.
func (d *Detector) PrintDiagnostics(w io.Writer) {
	fmt.Fprintln(w, "================ FLAME DETECTOR STATUS ================")
	fmt.Fprintf(w, "State: %s\n", d.state)
	fmt.Fprintf(w, "Active Spikes: %d/%d\n", d.countActiveSpikes(), NumChannels)
	fmt.Fprintf(w, "Sensitivity: %d mV\n", d.margin)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CH  |   Raw(mV)  |  Base(mV)  |  Dev(mV)  | Spike")
	fmt.Fprintln(w, "----|------------|------------|-----------|------")

	for i := range d.channels {
		ch := &d.channels[i]
		spike := "NO"
		if ch.IsSpike {
			spike = "YES"
		}
		fmt.Fprintf(w, " %d  | %10d | %10.1f | %9.1f | %s\n",
			i, ch.Raw, ch.Baseline, ch.Deviation, spike)
	}

	fmt.Fprintln(w, "=======================================================")

	// One line per call, tab-separated raw/baseline pairs, for serial-plotter
	// style tooling.
	fmt.Fprint(w, "[PLOTTER] ")
	for i := range d.channels {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprintf(w, "%d\t%.0f", d.channels[i].Raw, d.channels[i].Baseline)
	}
	fmt.Fprintln(w)
}

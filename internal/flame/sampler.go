package flame

// sampleChannel reads one channel with oversampling: Oversampling raw reads
// with a short settling pause between them, averaged and truncated to int
// millivolts. Noise reduction scales with the square root of the sample
// count. An out-of-range channel returns 0; callers must not treat that as a
// valid reading. A failed raw read also contributes 0 for that read and is
// absorbed by the average.
func (d *Detector) sampleChannel(channel int) int {
	if channel < 0 || channel >= NumChannels {
		return 0
	}

	total := 0
	for i := 0; i < d.cfg.Oversampling; i++ {
		mv, err := d.src.ReadVoltage(channel)
		if err == nil {
			total += mv
		}
		d.cfg.Sleep(d.cfg.SettleDelay)
	}

	return total / d.cfg.Oversampling
}

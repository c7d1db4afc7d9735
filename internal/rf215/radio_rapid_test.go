package rf215

import (
	"testing"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestSetFrequencyBandMembershipProperty is invariant 6: for any
// frequency, SetFrequency succeeds exactly when it falls within the
// band's [Min, Max] (and the channel spacing/channel are representable),
// otherwise it returns IncorrectSettings.
func TestSetFrequencyBandMembershipProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		freq := rapid.Uint32Range(Band09.MinFrequency-1_000_000, Band09.MaxFrequency+1_000_000).Draw(rt, "freq")
		channel := rapid.Uint16Range(0, Band09.MaxChannel).Draw(rt, "channel")

		m := bus.NewMockBus()
		r := NewRadio(Band09, m)

		err := r.SetFrequency(FrequencyConfig{Freq: freq, ChannelSpacing: 200_000, Channel: channel})

		inBand := freq >= Band09.MinFrequency && freq <= Band09.MaxFrequency && freq >= Band09.FrequencyOffset
		if inBand {
			assert.NoError(rt, err)
		} else {
			assert.ErrorIs(rt, err, kaonicerr.ErrIncorrectSettings)
		}
	})
}

// TestSetFrequencyRejectsOutOfRangeChannelProperty covers the channel
// half of invariant 6: any channel beyond MaxChannel is IncorrectSettings
// even when the frequency itself is in-band.
func TestSetFrequencyRejectsOutOfRangeChannelProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		channel := rapid.IntRange(int(Band09.MaxChannel)+1, int(Band09.MaxChannel)+10_000).Draw(rt, "channel")

		m := bus.NewMockBus()
		r := NewRadio(Band09, m)

		err := r.SetFrequency(FrequencyConfig{Freq: 868_000_000, ChannelSpacing: 200_000, Channel: Channel(channel)})
		assert.ErrorIs(rt, err, kaonicerr.ErrIncorrectSettings)
	})
}

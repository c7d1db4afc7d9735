// Package rf215 drives the AT86RF215 dual-band (sub-GHz / 2.4GHz) radio
// transceiver: per-band state machine, frequency programming, baseband
// FIFO access, and modulation-dependent frontend configuration.
package rf215

// FreqResolutionHz is the RFn_CS/CCF0 register step (25 kHz, per
// datasheet §6.3 frequency synthesizer resolution).
const FreqResolutionHz = 25_000

// Common (chip-wide) register addresses.
const (
	RegRF09IRQS  uint16 = 0x00
	RegRF24IRQS  uint16 = 0x01
	RegBBC0IRQS  uint16 = 0x02
	RegBBC1IRQS  uint16 = 0x03
	RegRFRST     uint16 = 0x05
	RegRFCFG     uint16 = 0x06
	RegRFCLKO    uint16 = 0x07
	RegRFBMDVC   uint16 = 0x08
	RegRFXOC     uint16 = 0x09
	RegRFIQIFC0  uint16 = 0x0A
	RegRFIQIFC1  uint16 = 0x0B
	RegRFIQIFC2  uint16 = 0x0C
	RegRFPN      uint16 = 0x0D
	RegRFVN      uint16 = 0x0E
)

// RadioBaseAddress09/24 are the RFn register block base addresses.
const (
	RadioBaseAddress09 uint16 = 0x0100
	RadioBaseAddress24 uint16 = 0x0200
)

// BasebandBaseAddress0/1 are the BBCn register block base addresses.
const (
	BasebandBaseAddress0 uint16 = 0x0300
	BasebandBaseAddress1 uint16 = 0x0400
)

// Per-band radio register offsets (added to RadioBaseAddress09/24).
const (
	regRFxxIRQM   uint16 = 0x000
	regRFxxAUXS   uint16 = 0x001
	regRFxxSTATE  uint16 = 0x002
	regRFxxCMD    uint16 = 0x003
	regRFxxCS     uint16 = 0x004
	regRFxxCCF0L  uint16 = 0x005
	regRFxxCCF0H  uint16 = 0x006
	regRFxxCNL    uint16 = 0x007
	regRFxxCNM    uint16 = 0x008
	regRFxxRXBWC  uint16 = 0x009
	regRFxxRXDFE  uint16 = 0x00A
	regRFxxAGCC   uint16 = 0x00B
	regRFxxAGCS   uint16 = 0x00C
	regRFxxRSSI   uint16 = 0x00D
	regRFxxEDC    uint16 = 0x00E
	regRFxxEDD    uint16 = 0x00F
	regRFxxEDV    uint16 = 0x010
	regRFxxRNDV   uint16 = 0x011
	regRFxxTXCUTC uint16 = 0x012
	regRFxxTXDFE  uint16 = 0x013
	regRFxxPAC    uint16 = 0x014
	regRFxxPADFE  uint16 = 0x016
	regRFxxPLL    uint16 = 0x021
	regRFxxPLLCF  uint16 = 0x022
)

// Per-band baseband register offsets (added to BasebandBaseAddress0/1).
const (
	regBBCxPC    uint16 = 0x000
	regBBCxTXFLL uint16 = 0x004
	regBBCxTXFLH uint16 = 0x005
	regBBCxRXFLL uint16 = 0x006
	regBBCxRXFLH uint16 = 0x007
)

// FIFO window base addresses. The baseband frame FIFOs live in a separate
// address region from the BBCn control registers.
const (
	FifoTxBaseAddress0 uint16 = 0x2000
	FifoRxBaseAddress0 uint16 = 0x3000
	FifoTxBaseAddress1 uint16 = 0x4000
	FifoRxBaseAddress1 uint16 = 0x5000
)

// FrameSize is the RF215 baseband FIFO size in bytes, matching
// internal/frame.HardwareFrameSize.
const FrameSize = 2048

// RadioState is the RFn_STATE state machine value.
type RadioState uint8

const (
	StatePowerOff   RadioState = 0x00
	StateSleep      RadioState = 0x01
	StateTrxOff     RadioState = 0x02
	StateTrxPrep    RadioState = 0x03
	StateTx         RadioState = 0x04
	StateRx         RadioState = 0x05
	StateTransition RadioState = 0x06
	StateReset      RadioState = 0x07
)

func (s RadioState) String() string {
	switch s {
	case StatePowerOff:
		return "PowerOff"
	case StateSleep:
		return "Sleep"
	case StateTrxOff:
		return "TrxOff"
	case StateTrxPrep:
		return "TrxPrep"
	case StateTx:
		return "Tx"
	case StateRx:
		return "Rx"
	case StateTransition:
		return "Transition"
	case StateReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// RadioCommand is the value written to RFn_CMD to request a state
// transition.
type RadioCommand uint8

const (
	CommandNop    RadioCommand = 0x0
	CommandSleep  RadioCommand = 0x1
	CommandTrxOff RadioCommand = 0x2
	CommandTrxPrep RadioCommand = 0x3
	CommandTx     RadioCommand = 0x4
	CommandRx     RadioCommand = 0x5
	CommandReset  RadioCommand = 0x7
)

// RadioInterruptMask is the RFn_IRQM/RFn_IRQS bitmask (§5.3.2.3).
type RadioInterruptMask uint8

const (
	IRQWakeup               RadioInterruptMask = 0b0000_0001
	IRQTransceiverReady     RadioInterruptMask = 0b0000_0010
	IRQEnergyDetectionDone  RadioInterruptMask = 0b0000_0100
	IRQBatteryLow           RadioInterruptMask = 0b0000_1000
	IRQTrxError             RadioInterruptMask = 0b0001_0000
)

// BasebandInterruptMask is the BBCn_IRQM/BBCn_IRQS bitmask.
type BasebandInterruptMask uint8

const (
	IRQRxFrameEnd BasebandInterruptMask = 0b0000_0001
	IRQTxFrameEnd BasebandInterruptMask = 0b0000_0010
	IRQRxAddrMatch BasebandInterruptMask = 0b0000_0100
	IRQRxFifoOverflow BasebandInterruptMask = 0b0000_1000
)

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package nn

const (
	INSTRUCTION_WIDTH_BITS = 30 // Field width of each layer dimension.
	INSTRUCTION_WIDTH_MAX  = (1 << INSTRUCTION_WIDTH_BITS) - 1

	instructionInShift   = 34
	instructionOutShift  = 4
	instructionFieldMask = uint64(INSTRUCTION_WIDTH_MAX)
	instructionActMask   = uint64(0xf)
)

// Instruction is the packed 64-bit layer descriptor the configuration
// channel streams to the NPU:
//
//	bits[63:34] input width (30 bits)
//	bits[33:4]  output width (30 bits)
//	bits[3:0]   activation code
type Instruction uint64

// Encode packs a layer shape and activation. Widths wider than 30 bits can
// not be represented and return ErrShapeRange rather than silently encoding
// a corrupt instruction.
func Encode(in uint64, out uint64, act Activation) (inst Instruction, err error) {
	if in > INSTRUCTION_WIDTH_MAX || out > INSTRUCTION_WIDTH_MAX {
		err = ErrShapeRange
		return
	}
	inst = Instruction(in<<instructionInShift | out<<instructionOutShift | uint64(act))
	return
}

// In returns the input width field.
func (inst Instruction) In() uint64 {
	return (uint64(inst) >> instructionInShift) & instructionFieldMask
}

// Out returns the output width field.
func (inst Instruction) Out() uint64 {
	return (uint64(inst) >> instructionOutShift) & instructionFieldMask
}

// Activation returns the activation code field.
func (inst Instruction) Activation() Activation {
	return Activation(uint64(inst) & instructionActMask)
}

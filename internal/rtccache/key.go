package rtccache

// Key identifies one compiled code object (spec §4.2:
// "kernel-name, GPU-arch, driver-version, generator-fingerprint").
type Key struct {
	KernelName    string
	GPUArch       string
	DriverVersion int
	GeneratorFP   []byte
}

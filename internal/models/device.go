package models

// EnrichmentConfig controls which device enrichers run for outgoing
// measurements.
type EnrichmentConfig struct {
	DeviceInfo bool `yaml:"device_info"`
	Hardware   bool `yaml:"hardware"`
	Locale     bool `yaml:"locale"`
}

// DeviceOS describes the operating system of the host device.
type DeviceOS struct {
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelArch      string `json:"kernel_arch"`
}

// DeviceHardware describes coarse hardware characteristics of the host
// device.
type DeviceHardware struct {
	MemoryTotal uint64 `json:"memory_total"`
	CPUCores    int    `json:"cpu_cores"`
}

// DeviceLocale describes the language and timezone of the host environment.
type DeviceLocale struct {
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	TimezoneOffset int    `json:"timezone_offset"`
}

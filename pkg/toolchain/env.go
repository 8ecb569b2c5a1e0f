package toolchain

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/gostage/pkg/config"
)

// BuildEnv returns the environment overrides for go tool invocations
// inside the workspace. The workspace is the only GOPATH entry, module
// mode is off, and the network stays out of the build unless the caller
// explicitly configured a proxy.
func BuildEnv(cfg *config.Config, buildRoot string) map[string]string {
	env := map[string]string{
		"GOPATH":      buildRoot,
		"GO111MODULE": "off",
		"GOCACHE":     filepath.Join(buildRoot, "go-build"),
	}
	if os.Getenv("GOPROXY") == "" {
		env["GOPROXY"] = "off"
	}

	if cfg.IsCrossCompiling() {
		if goos := GoOS(cfg.HostArchOS); goos != "" {
			env["GOOS"] = goos
		}
		if goarch := GoArch(cfg.HostArchCPU); goarch != "" {
			env["GOARCH"] = goarch
		}
		if goarm := GoARM(cfg.HostArch); goarm != "" {
			env["GOARM"] = goarm
		}
		// cgo needs a target C toolchain, which a plain cross build
		// does not have
		if os.Getenv("CGO_ENABLED") == "" {
			env["CGO_ENABLED"] = "0"
		}
	}

	return env
}

// GoOS maps a dpkg architecture OS (DEB_HOST_ARCH_OS) to a GOOS value.
// Unknown systems map to "" and the build proceeds with the native GOOS.
func GoOS(debOS string) string {
	switch debOS {
	case "linux":
		return "linux"
	case "kfreebsd":
		return "freebsd"
	case "hurd":
		return ""
	default:
		return ""
	}
}

// GoArch maps a dpkg architecture CPU (DEB_HOST_ARCH_CPU) to a GOARCH
// value. Unknown CPUs map to "".
func GoArch(debCPU string) string {
	switch debCPU {
	case "amd64":
		return "amd64"
	case "arm":
		return "arm"
	case "arm64":
		return "arm64"
	case "i386":
		return "386"
	case "loong64":
		return "loong64"
	case "mips":
		return "mips"
	case "mipsel":
		return "mipsle"
	case "mips64":
		return "mips64"
	case "mips64el":
		return "mips64le"
	case "ppc64":
		return "ppc64"
	case "ppc64el":
		return "ppc64le"
	case "riscv64":
		return "riscv64"
	case "s390x":
		return "s390x"
	default:
		return ""
	}
}

// GoARM returns the GOARM variant for the 32-bit arm Debian
// architectures, "" for everything else
func GoARM(debArch string) string {
	switch debArch {
	case "armel":
		return "5"
	case "armhf":
		return "6"
	default:
		return ""
	}
}

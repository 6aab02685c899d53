package services

// Hint returns the one-line guidance shown next to a failure of this kind.
func (k Kind) Hint() string {
	switch k {
	case KindFileNotFound:
		return "Please check that the file exists and you have permission to access it."
	case KindUnsupportedFormat:
		return "Please use a supported format."
	case KindConversionFailed:
		return "This might be due to a corrupted file or unsupported content."
	case KindMarkitdown:
		return "Please ensure markitdown is properly installed."
	case KindIO:
		return "Please check file permissions and available disk space."
	case KindInvalidPath:
		return "Please choose a valid location for the output file."
	default:
		return ""
	}
}

// Tips returns troubleshooting steps for a failure of this kind.
func (k Kind) Tips() []string {
	switch k {
	case KindFileNotFound:
		return []string{
			"Verify the file exists at the specified location",
			"Check that you have read permissions for the file",
			"Ensure the file is not locked by another application",
		}
	case KindUnsupportedFormat:
		return []string{
			"Check that the file extension matches the actual file type",
			"Pass an explicit format with --from/--to when the extension is unusual",
		}
	case KindConversionFailed:
		return []string{
			"Try converting a different file to isolate the issue",
			"Check that the input file is not password-protected",
			"Ensure the file content is valid for its format",
			"Verify you have write permissions to the output directory",
		}
	case KindMarkitdown:
		return []string{
			"Install markitdown: pip install markitdown",
			"Ensure markitdown is available in your system PATH",
			"Try running markitdown --version in a terminal",
		}
	case KindIO:
		return []string{
			"Check available disk space",
			"Verify write permissions to the output directory",
			"Try selecting a different output location",
		}
	case KindInvalidPath:
		return []string{
			"Give the file an extension docbridge recognizes",
			"Or pass the format explicitly with --from/--to",
		}
	default:
		return nil
	}
}

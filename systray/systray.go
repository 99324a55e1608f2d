package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	webPort   int
	iconData  []byte
	onRelease func()
	quit      chan struct{}
}

// NewSystrayManager creates a new systray manager. onRelease is invoked when
// the user picks the manual modifier-release menu item.
func NewSystrayManager(webPort int, iconData []byte, onRelease func()) *SystrayManager {
	return &SystrayManager{
		webPort:   webPort,
		iconData:  iconData,
		onRelease: onRelease,
		quit:      make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("ClipDeck")
	systray.SetTooltip("ClipDeck - Numbered Clipboard Slots")

	mOpenWebUI := systray.AddMenuItem("Open Dashboard", "Open the ClipDeck dashboard")
	mRelease := systray.AddMenuItem("Release Modifiers", "Release all modifier keys if something feels stuck")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit ClipDeck")

	go func() {
		for {
			select {
			case <-mOpenWebUI.ClickedCh:
				m.openWebUI()
			case <-mRelease.ClickedCh:
				slog.Info("Manual modifier release requested from system tray")
				if m.onRelease != nil {
					m.onRelease()
				}
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openWebUI opens the web UI in the default browser
func (m *SystrayManager) openWebUI() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)
	slog.Info("Opening dashboard", "url", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}

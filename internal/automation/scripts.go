package automation

import "fmt"

// PausedSentinel is what CurrentTrack returns while the player is paused.
const PausedSentinel = "Paused"

// StatePlaying is the player state reported while music is playing.
const StatePlaying = "playing"

// Scripts holds the AppleScript sources for one application.
type Scripts struct {
	App             string
	CurrentTrack    string
	PlayerState     string
	TogglePlayPause string
	PreviousTrack   string
	NextTrack       string
}

// NewScripts builds the script set for a scriptable player such as Spotify
// or Music. CurrentTrack returns "artist - title" while playing and the
// paused sentinel otherwise.
func NewScripts(app, pausedSentinel string) Scripts {
	if pausedSentinel == "" {
		pausedSentinel = PausedSentinel
	}
	return Scripts{
		App: app,
		CurrentTrack: fmt.Sprintf(`tell application %q
	if player state is playing then
		return (get artist of current track) & " - " & (get name of current track)
	else
		return %q
	end if
end tell`, app, pausedSentinel),
		PlayerState: fmt.Sprintf(`tell application %q to return player state`, app),
		TogglePlayPause: fmt.Sprintf(`tell application %q
	if player state is playing then
		pause
	else
		play
	end if
end tell`, app),
		PreviousTrack: fmt.Sprintf(`tell application %q to previous track`, app),
		NextTrack:     fmt.Sprintf(`tell application %q to next track`, app),
	}
}

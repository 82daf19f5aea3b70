package models

import "fmt"

// messages maps message keys to server chat text. Localization proper
// lives outside this process; this is the built-in catalog.
var messages = map[string]string{
	"prefix":       "[Admin]",
	"console_name": "CONSOLE",
	"no_reason":    "No reason given",
	"unknown":      "Unknown",

	"no_permission":    "You do not have permission to use this command.",
	"player_not_found": "Player not found.",
	"invalid_duration": "Invalid duration. Use minutes, 0 for permanent.",
	"invalid_steamid":  "Invalid SteamID.",

	"ban_usage":    "Usage: ban <player> <minutes|0> [reason]",
	"addban_usage": "Usage: addban <steamid> <minutes|0> [reason]",
	"unban_usage":  "Usage: unban <steamid> [reason]",
	"mute_usage":   "Usage: mute <player> <minutes|0> [reason]",
	"unmute_usage": "Usage: unmute <player> [reason]",
	"gag_usage":    "Usage: gag <player> <minutes|0> [reason]",
	"ungag_usage":  "Usage: ungag <player> [reason]",
	"kick_usage":   "Usage: kick <player> [reason]",

	"addadmin_usage":    "Usage: addadmin <steamid> <name> <flags> <immunity> [days]",
	"removeadmin_usage": "Usage: removeadmin <steamid>",

	"asay_usage": "Usage: asay <message>",
	"say_usage":  "Usage: say <message>",
	"psay_usage": "Usage: psay <player> <message>",

	"asay_format": "(ADMINS) %s: %s",
	"say_format":  "%s: %s",
	"csay_format": ">> %s <<",
	"hsay_format": "[Server] %s",
	"psay_format": "(Private) %s: %s",

	"duration_permanently": "permanently",
	"duration_for_minutes": "for %d minutes",
	"duration_permanent":   "permanent",
	"duration_minutes":     "%d minutes",

	"player_already_banned": "%s is already banned.",
	"player_already_muted":  "%s is already muted.",
	"player_already_gagged": "%s is already gagged.",
	"steamid_already_banned": "SteamID %d is already banned.",
	"steamid_not_banned":     "SteamID %d is not banned.",
	"player_not_muted":       "%s is not muted.",
	"player_not_gagged":      "%s is not gagged.",

	"banned_notification":   "%s banned %s %s. Reason: %s",
	"muted_notification":    "%s muted %s %s. Reason: %s",
	"gagged_notification":   "%s gagged %s %s. Reason: %s",
	"silenced_notification": "%s silenced %s %s. Reason: %s",
	"kicked_notification":   "%s kicked %s. Reason: %s",
	"unbanned_success":      "SteamID %d unbanned. Reason: %s",
	"unmuted_success":       "%s unmuted.",
	"ungagged_success":      "%s ungagged.",
	"unsilenced_success":    "%s unsilenced.",
	"addban_success":        "Ban recorded for SteamID %d (%s).",

	"banned_personal": "You have been banned %s. Reason: %s",
	"ban_kick_reason_permanent": "Permanently banned: %s",
	"ban_kick_reason_minutes":   "Banned (%d minutes left): %s",
	"kick_reason":               "Kicked: %s",

	"mute_expired": "Your mute has expired. You may use voice chat again.",
	"gag_expired":  "Your gag has expired. You may use text chat again.",

	"muted_warning_permanent": "You are permanently muted.",
	"muted_warning_minutes":   "You are muted for another %d minutes.",
	"gagged_warning_permanent": "You are permanently gagged.",
	"gagged_warning_minutes":   "You are gagged for another %d minutes.",

	"admin_added":     "Admin %s (%d) saved with flags %s, immunity %d.",
	"admin_removed":   "Admin record for SteamID %d removed.",
	"admin_not_found": "No admin record for SteamID %d.",
	"admin_list_header": "Admins (%d):",
	"admin_list_entry":  "  %s [%d] immunity %d flags %s",

	"join_summary":     "%s (%d) Bans:%d Mutes:%d Gags:%d Active: %s",
	"join_active_ban":  "BAN",
	"join_active_mute": "MUTE",
	"join_active_gag":  "GAG",
	"join_active_none": "none",

	"players_header": "Players (%d):",
	"players_entry":  "  #%d %s (%d)",
	"who_entry":      "%s (%d) immunity %d flags %s",
	"who_no_admin":   "%s (%d) is not an admin.",

	"server_info": "OS: %s | Uptime: %s | CPU: %.1f%% | Mem: %.1f%% | Players: %d",
}

// Message formats the catalog entry for key with args. Unknown keys
// come back as the key itself so a missing entry is visible in chat
// instead of silently blank.
func Message(key string, args ...any) string {
	text, ok := messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

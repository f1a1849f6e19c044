package ui

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLanguage is used when neither the request nor the settings name a known language
const DefaultLanguage = "en"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyPlayerTitle     = "player_title"
	KeyDownloaderTitle = "downloader_title"
	KeyLanguage        = "language"
	KeyApply           = "apply"

	// player
	KeySearch            = "search"
	KeySearchPlaceholder = "search_placeholder"
	KeyResults           = "results"
	KeyNoResults         = "no_results"
	KeyPlay              = "play"
	KeyNowPlaying        = "now_playing"
	KeyAudioUnavailable  = "audio_unavailable"
	KeyPleaseEnterQuery  = "please_enter_query"
	KeyInvalidSelection  = "invalid_selection"
	KeyUsingCookies      = "using_cookies"
	KeyNoCookiesInUse    = "no_cookies_in_use"

	// cookie sidebar
	KeyCookies           = "cookies"
	KeyService           = "service"
	KeyCookieFresh       = "cookie_fresh"
	KeyCookieStale       = "cookie_stale"
	KeyCookieNone        = "cookie_none"
	KeyImportFromBrowser = "import_from_browser"
	KeyBrowser           = "browser"
	KeyImport            = "import"
	KeyUploadCookies     = "upload_cookies"
	KeyUpload            = "upload"
	KeyUploadHint        = "upload_hint"
	KeyLoginInBrowser    = "login_in_browser"
	KeyLoginURL          = "login_url"
	KeyStartLogin        = "start_login"
	KeyConfirmLogin      = "confirm_login"
	KeyAbortLogin        = "abort_login"
	KeyLoginPending      = "login_pending"
	KeyLoginStarted      = "login_started"
	KeyNoLoginPending    = "no_login_pending"
	KeyCookiesSaved      = "cookies_saved"
	KeyCookiesImported   = "cookies_imported"
	KeyUnsupportedUpload = "unsupported_upload"

	// downloader
	KeyDownload          = "download"
	KeyEnterURL          = "enter_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyKind              = "kind"
	KeyVideo             = "video"
	KeyAudio             = "audio"
	KeyQualityPreset     = "quality_preset"
	KeyQualityBest       = "quality_best"
	KeyExpandPlaylist    = "expand_playlist"
	KeyPlaylistLoaded    = "playlist_loaded"
	KeyActivity          = "activity"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadedFiles   = "downloaded_files"
	KeyNoFiles           = "no_files"
	KeyFile              = "file"
	KeySize              = "size"
	KeyStatus            = "status"
	KeyArchive           = "archive"
	KeyDownloadArchive   = "download_archive"
	KeyArchiveCreated    = "archive_created"
	KeyClearAll          = "clear_all"
	KeyClearConfirm      = "clear_confirm"
	KeyFilesCleared      = "files_cleared"

	// errors
	KeyErrorInvalidInput = "error_invalid_input"
	KeyErrorExtraction   = "error_extraction"
	KeyErrorAutomation   = "error_automation"
	KeyErrorFilesystem   = "error_filesystem"
	KeyErrorTranscode    = "error_transcode"
	KeyErrorLoginTimeout = "error_login_timeout"
	KeyErrorLoginAborted = "error_login_aborted"
	KeyErrorCanceled     = "error_canceled"
	KeyErrorGeneric      = "error_generic"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the language used when a request names none
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = DefaultLanguage
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key in the current language
func (l *Localization) GetText(key string) string {
	return l.Text(l.currentLanguage, key)
}

// Text returns localized text for key in lang, falling back to English and then the key
func (l *Localization) Text(lang, key string) string {
	if texts, exists := l.texts[lang]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized text of key in lang formatted with args
func (l *Localization) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.Text(lang, key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// HasLanguage reports whether lang has a translation table
func (l *Localization) HasLanguage(lang string) bool {
	_, ok := l.texts[lang]
	return ok
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// LanguageCodes returns the available language codes sorted
func (l *Localization) LanguageCodes() []string {
	codes := make([]string, 0, len(l.texts))
	for code := range l.texts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MatchLanguage picks the first supported language of an Accept-Language header
func (l *Localization) MatchLanguage(accept string) (string, bool) {
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if l.HasLanguage(base) {
			return base, true
		}
	}
	return "", false
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyPlayerTitle:     "YouTube Music Player",
		KeyDownloaderTitle: "YT Downloader",
		KeyLanguage:        "Language",
		KeyApply:           "Apply",

		KeySearch:            "Search",
		KeySearchPlaceholder: "Song, artist or album",
		KeyResults:           "Results",
		KeyNoResults:         "No results",
		KeyPlay:              "Play",
		KeyNowPlaying:        "Now playing",
		KeyAudioUnavailable:  "No audio stream is available for this video",
		KeyPleaseEnterQuery:  "Please enter a search query",
		KeyInvalidSelection:  "That result is no longer available, search again",
		KeyUsingCookies:      "Using saved YouTube cookies",
		KeyNoCookiesInUse:    "Not logged in, some videos may be unavailable",

		KeyCookies:           "Cookies",
		KeyService:           "Service",
		KeyCookieFresh:       "%d cookies, saved %s",
		KeyCookieStale:       "Cookies expired, log in again",
		KeyCookieNone:        "No cookies saved",
		KeyImportFromBrowser: "Import from installed browser",
		KeyBrowser:           "Browser",
		KeyImport:            "Import",
		KeyUploadCookies:     "Upload cookie file",
		KeyUpload:            "Upload",
		KeyUploadHint:        "JSON export or Netscape cookies.txt",
		KeyLoginInBrowser:    "Log in with a browser window",
		KeyLoginURL:          "Login page",
		KeyStartLogin:        "Open browser",
		KeyConfirmLogin:      "I have logged in",
		KeyAbortLogin:        "Cancel",
		KeyLoginPending:      "A browser window is open for %s. Log in there, then confirm before %s.",
		KeyLoginStarted:      "Browser opened, log in and confirm here",
		KeyNoLoginPending:    "No browser login is in progress",
		KeyCookiesSaved:      "%d cookies saved for %s",
		KeyCookiesImported:   "Cookies imported from %s",
		KeyUnsupportedUpload: "Upload a .json or .txt cookie file",

		KeyDownload:          "Download",
		KeyEnterURL:          "YouTube URL (https://youtube.com/watch?v=...)",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyKind:              "Type",
		KeyVideo:             "Video (MP4)",
		KeyAudio:             "Audio (MP3)",
		KeyQualityPreset:     "Quality",
		KeyQualityBest:       "Best available",
		KeyExpandPlaylist:    "List playlist",
		KeyPlaylistLoaded:    "Playlist loaded: %d videos",
		KeyActivity:          "Activity",
		KeyDownloadCompleted: "Saved %s",
		KeyDownloadedFiles:   "Downloaded files",
		KeyNoFiles:           "No files yet",
		KeyFile:              "File",
		KeySize:              "Size",
		KeyStatus:            "Status",
		KeyArchive:           "Create ZIP",
		KeyDownloadArchive:   "Download ZIP",
		KeyArchiveCreated:    "Archive created",
		KeyClearAll:          "Delete all files",
		KeyClearConfirm:      "Delete every downloaded file?",
		KeyFilesCleared:      "%d files deleted",

		KeyErrorInvalidInput: "Invalid input",
		KeyErrorExtraction:   "YouTube extraction failed",
		KeyErrorAutomation:   "Could not control the browser",
		KeyErrorFilesystem:   "File operation failed",
		KeyErrorTranscode:    "Audio conversion failed",
		KeyErrorLoginTimeout: "Browser login timed out",
		KeyErrorLoginAborted: "Browser login cancelled",
		KeyErrorCanceled:     "Request cancelled",
		KeyErrorGeneric:      "Something went wrong",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyPlayerTitle:     "Музыкальный плеер YouTube",
		KeyDownloaderTitle: "YT Загрузчик",
		KeyLanguage:        "Язык",
		KeyApply:           "Применить",

		KeySearch:            "Поиск",
		KeySearchPlaceholder: "Песня, исполнитель или альбом",
		KeyResults:           "Результаты",
		KeyNoResults:         "Ничего не найдено",
		KeyPlay:              "Слушать",
		KeyNowPlaying:        "Сейчас играет",
		KeyAudioUnavailable:  "Для этого видео нет аудиопотока",
		KeyPleaseEnterQuery:  "Пожалуйста, введите запрос",
		KeyInvalidSelection:  "Этот результат устарел, повторите поиск",
		KeyUsingCookies:      "Используются сохранённые cookies YouTube",
		KeyNoCookiesInUse:    "Вход не выполнен, часть видео может быть недоступна",

		KeyCookies:           "Cookies",
		KeyService:           "Сервис",
		KeyCookieFresh:       "%d cookies, сохранены %s",
		KeyCookieStale:       "Cookies устарели, войдите снова",
		KeyCookieNone:        "Cookies не сохранены",
		KeyImportFromBrowser: "Импорт из установленного браузера",
		KeyBrowser:           "Браузер",
		KeyImport:            "Импортировать",
		KeyUploadCookies:     "Загрузить файл cookies",
		KeyUpload:            "Загрузить",
		KeyUploadHint:        "JSON-экспорт или cookies.txt в формате Netscape",
		KeyLoginInBrowser:    "Вход через окно браузера",
		KeyLoginURL:          "Страница входа",
		KeyStartLogin:        "Открыть браузер",
		KeyConfirmLogin:      "Я вошёл",
		KeyAbortLogin:        "Отмена",
		KeyLoginPending:      "Открыто окно браузера для %s. Войдите и подтвердите до %s.",
		KeyLoginStarted:      "Браузер открыт, войдите и подтвердите здесь",
		KeyNoLoginPending:    "Вход через браузер не выполняется",
		KeyCookiesSaved:      "Сохранено %d cookies для %s",
		KeyCookiesImported:   "Cookies импортированы из %s",
		KeyUnsupportedUpload: "Загрузите файл cookies .json или .txt",

		KeyDownload:          "Скачать",
		KeyEnterURL:          "URL YouTube (https://youtube.com/watch?v=...)",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyKind:              "Тип",
		KeyVideo:             "Видео (MP4)",
		KeyAudio:             "Аудио (MP3)",
		KeyQualityPreset:     "Качество",
		KeyQualityBest:       "Лучшее доступное",
		KeyExpandPlaylist:    "Показать плейлист",
		KeyPlaylistLoaded:    "Плейлист загружен: %d видео",
		KeyActivity:          "Активность",
		KeyDownloadCompleted: "Сохранено: %s",
		KeyDownloadedFiles:   "Скачанные файлы",
		KeyNoFiles:           "Файлов пока нет",
		KeyFile:              "Файл",
		KeySize:              "Размер",
		KeyStatus:            "Статус",
		KeyArchive:           "Создать ZIP",
		KeyDownloadArchive:   "Скачать ZIP",
		KeyArchiveCreated:    "Архив создан",
		KeyClearAll:          "Удалить все файлы",
		KeyClearConfirm:      "Удалить все скачанные файлы?",
		KeyFilesCleared:      "Удалено файлов: %d",

		KeyErrorInvalidInput: "Неверные данные",
		KeyErrorExtraction:   "Ошибка извлечения с YouTube",
		KeyErrorAutomation:   "Не удалось управлять браузером",
		KeyErrorFilesystem:   "Ошибка файловой операции",
		KeyErrorTranscode:    "Ошибка конвертации аудио",
		KeyErrorLoginTimeout: "Время входа через браузер истекло",
		KeyErrorLoginAborted: "Вход через браузер отменён",
		KeyErrorCanceled:     "Запрос отменён",
		KeyErrorGeneric:      "Что-то пошло не так",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyPlayerTitle:     "Player de Música do YouTube",
		KeyDownloaderTitle: "YT Downloader",
		KeyLanguage:        "Idioma",
		KeyApply:           "Aplicar",

		KeySearch:            "Buscar",
		KeySearchPlaceholder: "Música, artista ou álbum",
		KeyResults:           "Resultados",
		KeyNoResults:         "Nenhum resultado",
		KeyPlay:              "Tocar",
		KeyNowPlaying:        "Tocando agora",
		KeyAudioUnavailable:  "Nenhum fluxo de áudio disponível para este vídeo",
		KeyPleaseEnterQuery:  "Por favor, digite uma busca",
		KeyInvalidSelection:  "Esse resultado não está mais disponível, busque novamente",
		KeyUsingCookies:      "Usando cookies salvos do YouTube",
		KeyNoCookiesInUse:    "Sem login, alguns vídeos podem estar indisponíveis",

		KeyCookies:           "Cookies",
		KeyService:           "Serviço",
		KeyCookieFresh:       "%d cookies, salvos em %s",
		KeyCookieStale:       "Cookies expirados, faça login novamente",
		KeyCookieNone:        "Nenhum cookie salvo",
		KeyImportFromBrowser: "Importar do navegador instalado",
		KeyBrowser:           "Navegador",
		KeyImport:            "Importar",
		KeyUploadCookies:     "Enviar arquivo de cookies",
		KeyUpload:            "Enviar",
		KeyUploadHint:        "Exportação JSON ou cookies.txt no formato Netscape",
		KeyLoginInBrowser:    "Login com uma janela do navegador",
		KeyLoginURL:          "Página de login",
		KeyStartLogin:        "Abrir navegador",
		KeyConfirmLogin:      "Já fiz login",
		KeyAbortLogin:        "Cancelar",
		KeyLoginPending:      "Uma janela do navegador está aberta para %s. Faça login e confirme antes de %s.",
		KeyLoginStarted:      "Navegador aberto, faça login e confirme aqui",
		KeyNoLoginPending:    "Nenhum login pelo navegador em andamento",
		KeyCookiesSaved:      "%d cookies salvos para %s",
		KeyCookiesImported:   "Cookies importados do %s",
		KeyUnsupportedUpload: "Envie um arquivo de cookies .json ou .txt",

		KeyDownload:          "Baixar",
		KeyEnterURL:          "URL do YouTube (https://youtube.com/watch?v=...)",
		KeyPleaseEnterURL:    "Por favor, insira uma URL",
		KeyKind:              "Tipo",
		KeyVideo:             "Vídeo (MP4)",
		KeyAudio:             "Áudio (MP3)",
		KeyQualityPreset:     "Qualidade",
		KeyQualityBest:       "Melhor disponível",
		KeyExpandPlaylist:    "Listar playlist",
		KeyPlaylistLoaded:    "Playlist carregada: %d vídeos",
		KeyActivity:          "Atividade",
		KeyDownloadCompleted: "Salvo %s",
		KeyDownloadedFiles:   "Arquivos baixados",
		KeyNoFiles:           "Nenhum arquivo ainda",
		KeyFile:              "Arquivo",
		KeySize:              "Tamanho",
		KeyStatus:            "Status",
		KeyArchive:           "Criar ZIP",
		KeyDownloadArchive:   "Baixar ZIP",
		KeyArchiveCreated:    "Arquivo ZIP criado",
		KeyClearAll:          "Excluir todos os arquivos",
		KeyClearConfirm:      "Excluir todos os arquivos baixados?",
		KeyFilesCleared:      "%d arquivos excluídos",

		KeyErrorInvalidInput: "Entrada inválida",
		KeyErrorExtraction:   "Falha na extração do YouTube",
		KeyErrorAutomation:   "Não foi possível controlar o navegador",
		KeyErrorFilesystem:   "Falha na operação de arquivo",
		KeyErrorTranscode:    "Falha na conversão de áudio",
		KeyErrorLoginTimeout: "O login pelo navegador expirou",
		KeyErrorLoginAborted: "Login pelo navegador cancelado",
		KeyErrorCanceled:     "Requisição cancelada",
		KeyErrorGeneric:      "Algo deu errado",
	}
}

package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer   = "answer"
	actionMonth    = "month"
	actionLesson   = "lesson"
	actionExam     = "exam"
	actionSkip     = "skip"
	actionListen   = "listen"
	actionProgress = "progress"
	actionReset    = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// intParam returns the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildAnswerCallback(index int) string {
	return callbackData{Action: actionAnswer, Params: []string{strconv.Itoa(index)}}.encode()
}

func buildMonthCallback(month int) string {
	return callbackData{Action: actionMonth, Params: []string{strconv.Itoa(month)}}.encode()
}

func buildLessonCallback(month, day int) string {
	return callbackData{
		Action: actionLesson,
		Params: []string{strconv.Itoa(month), strconv.Itoa(day)},
	}.encode()
}

func buildExamCallback(month int) string {
	return callbackData{Action: actionExam, Params: []string{strconv.Itoa(month)}}.encode()
}

func buildSkipCallback() string {
	return actionSkip
}

func buildListenCallback() string {
	return actionListen
}

func buildProgressCallback() string {
	return actionProgress
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

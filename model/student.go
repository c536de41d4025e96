package model

// AttendanceEntry 学生某一天的出勤记录 (后端返回)
type AttendanceEntry struct {
	Date      string `json:"date"`
	IsPresent bool   `json:"isPresent"`
}

// Student 后端 /student/all 返回的学生记录，本应用只读
type Student struct {
	ID             string            `json:"_id"`
	Name           string            `json:"name"`
	RegisterNumber string            `json:"registerNumber"`
	Email          string            `json:"email"`
	Department     string            `json:"department"`
	Year           string            `json:"year"`
	Section        string            `json:"section"`
	Attendance     []AttendanceEntry `json:"attendance"`
}

// RegisterRequest 学生注册/登录请求
type RegisterRequest struct {
	Name           string `json:"name" validate:"required"`
	RegisterNumber string `json:"registerNumber" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department" validate:"required,oneof=CSE ECE IT EEE CIVIL CHEMICAL MECH BME BIO-TECH AIDS CSBS"`
	Year           string `json:"year" validate:"required,oneof=First Second Third Final"`
	Section        string `json:"section" validate:"required,oneof=A B C"`
}

// AttendanceMarkRequest 标记出勤请求，每次通过闸门只构造并发送一次
type AttendanceMarkRequest struct {
	Date           string `json:"date"` // YYYY-MM-DD，本地时区
	RegisterNumber string `json:"registerNumber"`
}

// MarkResponse 后端标记出勤的响应
type MarkResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

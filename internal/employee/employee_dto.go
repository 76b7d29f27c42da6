package employee

type CreateEmployeeRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	EmployeeNumber string  `json:"employee_number"`
	Role           string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR ADMIN"`
	ManagerID      *string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Role      string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR ADMIN"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	ManagerID      *string `json:"manager_id,omitempty"`
}

package erp

import (
	"github.com/spf13/cobra"
)

// ErpCmd - родительская команда для проверок подключения к ERP
var ErpCmd = &cobra.Command{
	Use:   "erp",
	Short: "Работа с подключением к Odoo",
	Long:  `Проверка учетных данных и доступности сервера Odoo в режиме только для чтения.`,
}

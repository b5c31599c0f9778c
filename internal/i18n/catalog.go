// Package i18n holds the user-facing message catalog for the intake flow.
package i18n

import "tlcintake/internal/domain"

// Catalog resolves message keys to localized strings.
type Catalog struct {
	messages map[domain.Language]map[string]string
}

// NewCatalog returns the built-in message catalog.
func NewCatalog() *Catalog {
	return &Catalog{messages: messages}
}

// Get returns the message for key in the given language. Unsupported
// languages and missing keys fall back to English; an unknown key returns
// the key itself so the flow never renders an empty prompt.
func (c *Catalog) Get(key string, lang domain.Language) string {
	if m, ok := c.messages[lang]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if msg, ok := c.messages[domain.LangEnglish][key]; ok {
		return msg
	}
	return key
}

var messages = map[domain.Language]map[string]string{
	domain.LangEnglish: {
		"welcome":            "Hello! I'm here to make getting your commercial auto insurance quote quick, easy, and stress-free. Let's get started!",
		"language_selection": "First, what language would you prefer to use today?",

		"nys_license_intro":     "Great choice! To start, please upload your New York State Driver License. This will help me quickly gather your personal and license details.",
		"nys_license_confirm":   "Fantastic! Thank you for confirming your NYS Driver License information.",
		"tlc_license_intro":     "Next up, please upload a clear image of your Taxi and Limousine Commission (TLC) Hack License.",
		"tlc_license_confirm":   "Perfect! Thank you for confirming your TLC Hack License information.",
		"vehicle_title_intro":   "You're doing great! Now, please upload a clear image of your Vehicle Certificate of Title.",
		"vehicle_title_confirm": "Thank you for confirming your Vehicle Title information.",
		"other_driver_intro":    "Since the vehicle is not operated only by yourself, please upload the other driver's license.",

		"contact_info_intro": "Almost done! I just need your contact information to complete your application.",
		"phone_request":      "First, could you please provide your phone number?",
		"email_request":      "Great! Now, could you please provide your email address?",

		"radio_base_intro":  "Great! Please upload your Radio Base Certification Letter next.",
		"radio_base_select": "Fantastic! Please select your affiliated Radio Base from the options provided.",
		"radio_base_name_request": "Please enter the name of your Radio Base:",

		"review_intro":       "Here's a summary of all the information I've collected. Please review it carefully.",
		"confirm_question":   "Is this information correct? Would you like to submit your application?",
		"processing":         "Processing your application...",
		"submission_success": "You've successfully submitted your Commercial Auto Insurance application!",
		"submission_details": "Thank you for providing all your details. Our team will review your information and reach out within 2 business days. You will receive a confirmation email shortly.",
		"email_subject":      "Your Commercial Auto Insurance application was received",

		"processing_document": "Processing your document... Please wait. This usually takes about 10-15 seconds.",
		"document_success":    "Document processed successfully!",
		"document_error":      "There was an issue processing your document. Would you like to try again or enter the information manually?",
		"confirmation_number": "Your confirmation number: ",

		"btn_confirm":   "Confirm",
		"btn_edit":      "Edit",
		"btn_submit":    "Submit Application",
		"btn_edit_info": "Edit Information",
		"btn_retry":     "Try Again",
		"btn_manual":    "Enter Manually",
		"btn_yes":       "Yes",
		"btn_no":        "No",

		"owned_by_self": "Is this vehicle owned and operated only by yourself or spouse?",
		"named_drivers": "Is this vehicle operated by approved Named Drivers?",
		"workers_comp":  "Do you currently carry workers compensation?",
		"radio_base":    "Do you obtain fares via Radio Base?",

		"edit_option":          "What would you like to edit?",
		"personal_information": "Personal Information",
		"license_information":  "License Information",
		"documents_label":      "Documents",
		"btn_back":             "Back",
		"goodbye":              "Thank you for using our Commercial Auto Insurance Application Assistant.",

		"information_updated": "Information updated. Thank you!",
		"new_application":     "Submit Another Application",
		"exit":                "Exit",
		"restart":             "Starting a new application...",
		"invalid_option":      "Invalid option. Returning to review.",
	},
	domain.LangSpanish: {
		"welcome":            "¡Hola! Estoy aquí para hacer que obtener tu cotización de seguro de auto comercial sea rápido, fácil y sin estrés. ¡Vamos a empezar!",
		"language_selection": "Primero, ¿qué idioma prefieres utilizar hoy?",

		"nys_license_intro":     "¡Excelente elección! Para comenzar, por favor sube una imagen clara de tu licencia de conducir del estado de Nueva York.",
		"nys_license_confirm":   "¡Fantástico! Gracias por confirmar la información de tu licencia de conducir del estado de NY.",
		"tlc_license_intro":     "Ahora, por favor sube una imagen clara de tu licencia TLC (Taxi and Limousine Commission).",
		"tlc_license_confirm":   "¡Perfecto! Gracias por confirmar la información de tu licencia TLC.",
		"vehicle_title_intro":   "¡Lo estás haciendo muy bien! Ahora, por favor sube una imagen clara del certificado de título de tu vehículo.",
		"vehicle_title_confirm": "Gracias por confirmar la información del título de tu vehículo.",
		"other_driver_intro":    "Como el vehículo no es operado únicamente por ti, por favor sube la licencia del otro conductor.",

		"contact_info_intro": "¡Ya casi terminamos! Solo necesito tu información de contacto para completar tu solicitud.",
		"phone_request":      "Primero, ¿podrías proporcionarme tu número de teléfono, por favor?",
		"email_request":      "¡Excelente! Ahora, ¿podrías proporcionarme tu dirección de correo electrónico?",

		"radio_base_intro":  "¡Muy bien! Por favor sube tu carta de certificación de la base de radio.",
		"radio_base_select": "¡Fantástico! Ahora selecciona tu base de radio afiliada de las opciones proporcionadas.",
		"radio_base_name_request": "Por favor, escribe el nombre de tu base de radio:",

		"review_intro":       "Aquí hay un resumen de toda la información que he recopilado. Por favor, revísala cuidadosamente.",
		"confirm_question":   "¿Es correcta esta información? ¿Te gustaría enviar tu solicitud?",
		"processing":         "Procesando tu solicitud...",
		"submission_success": "¡Has enviado con éxito tu solicitud de seguro de auto comercial!",
		"submission_details": "Muchas gracias por proporcionar todos tus datos. Nuestro equipo revisará tu información y se comunicará contigo en un plazo de 2 días hábiles. Pronto recibirás un correo electrónico de confirmación.",
		"email_subject":      "Hemos recibido tu solicitud de seguro de auto comercial",

		"processing_document": "Procesando tu documento... Por favor espera. Esto normalmente toma entre 10-15 segundos.",
		"document_success":    "¡Documento procesado con éxito!",
		"document_error":      "Hubo un problema al procesar tu documento. ¿Te gustaría intentarlo de nuevo o ingresar la información manualmente?",
		"confirmation_number": "Tu número de confirmación: ",

		"btn_confirm":   "Confirmar",
		"btn_edit":      "Editar",
		"btn_submit":    "Enviar Solicitud",
		"btn_edit_info": "Editar Información",
		"btn_retry":     "Intentar de Nuevo",
		"btn_manual":    "Ingresar Manualmente",
		"btn_yes":       "Sí",
		"btn_no":        "No",

		"owned_by_self": "¿Este vehículo es propiedad y está operado únicamente por ti o tu cónyuge?",
		"named_drivers": "¿Este vehículo es operado por conductores nombrados aprobados?",
		"workers_comp":  "¿Actualmente tienes compensación para trabajadores?",
		"radio_base":    "¿Obtienes tarifas a través de una base de radio?",

		"edit_option":          "¿Qué te gustaría editar?",
		"personal_information": "Información Personal",
		"license_information":  "Información de Licencias",
		"documents_label":      "Documentos",
		"btn_back":             "Volver",
		"goodbye":              "Gracias por usar nuestro asistente de solicitudes de seguro de auto comercial.",

		"information_updated": "Información actualizada. ¡Gracias!",
		"new_application":     "Enviar Otra Solicitud",
		"exit":                "Salir",
		"restart":             "Comenzando una nueva solicitud...",
		"invalid_option":      "Opción inválida. Volviendo a la revisión.",
	},
	domain.LangChinese: {
		"welcome":            "你好！我在这里帮助您快速、轻松、无压力地获取商业汽车保险报价！让我们开始吧！",
		"language_selection": "首先，您今天想使用哪种语言？",

		"nys_license_intro":     "很好的选择！首先，请上传您的纽约州驾驶执照。这将帮助我快速获取您的个人和执照详细信息。",
		"nys_license_confirm":   "太棒了！感谢您确认您的纽约州驾驶执照信息。",
		"tlc_license_intro":     "接下来，请上传您的出租车和豪华轿车委员会(TLC)执照的清晰图像。",
		"tlc_license_confirm":   "完美！感谢您确认您的TLC执照信息。",
		"vehicle_title_intro":   "您做得很好！现在，请上传您的车辆所有权证明的清晰图像。",
		"vehicle_title_confirm": "感谢您确认您的车辆所有权信息。",
		"other_driver_intro":    "由于该车辆不是仅由您本人驾驶，请上传另一位驾驶员的执照。",

		"contact_info_intro": "几乎完成了！我只需要您的联系信息来完成您的申请。",
		"phone_request":      "首先，请提供您的电话号码？",
		"email_request":      "很好！现在，请提供您的电子邮件地址？",

		"radio_base_intro":  "太好了！请接下来上传您的无线电基地认证信。",
		"radio_base_select": "太棒了！请从提供的选项中选择您所属的无线电基地。",
		"radio_base_name_request": "请输入您的无线电基地名称：",

		"review_intro":       "以下是我收集的所有信息的摘要。请仔细检查。",
		"confirm_question":   "这些信息正确吗？您想提交您的申请吗？",
		"processing":         "正在处理您的申请...",
		"submission_success": "您已成功提交商业汽车保险申请！",
		"submission_details": "非常感谢您提供所有详细信息。我们的团队将审核您的信息并在2个工作日内与您联系。您很快会收到一封确认电子邮件。",
		"email_subject":      "您的商业汽车保险申请已收到",

		"processing_document": "正在处理您的文档...请稍候。这通常需要约10-15秒。",
		"document_success":    "文档处理成功！",
		"document_error":      "处理您的文档时出现问题。您想重试还是手动输入信息？",
		"confirmation_number": "您的确认号码：",

		"btn_confirm":   "确认",
		"btn_edit":      "编辑",
		"btn_submit":    "提交申请",
		"btn_edit_info": "编辑信息",
		"btn_retry":     "重试",
		"btn_manual":    "手动输入",
		"btn_yes":       "是",
		"btn_no":        "否",

		"owned_by_self": "这辆车是仅由您自己或配偶拥有和操作的吗？",
		"named_drivers": "这辆车是由经批准的指定驾驶员操作的吗？",
		"workers_comp":  "您目前是否有工人赔偿保险？",
		"radio_base":    "您是否通过无线电基地获取车费？",

		"edit_option":          "您想编辑什么？",
		"personal_information": "个人信息",
		"license_information":  "执照信息",
		"documents_label":      "文件",
		"btn_back":             "返回",
		"goodbye":              "感谢您使用我们的商业汽车保险申请助手。",

		"information_updated": "信息已更新。谢谢！",
		"new_application":     "提交另一份申请",
		"exit":                "退出",
		"restart":             "开始新的申请...",
		"invalid_option":      "选项无效。返回审核。",
	},
}
